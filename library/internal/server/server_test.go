package server

import (
	"context"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/Astemirdum/library-lending/library/config"
	"github.com/stretchr/testify/require"
)

func TestServer_RunStop(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	_, port, err := net.SplitHostPort(l.Addr().String())
	require.NoError(t, err)
	require.NoError(t, l.Close())

	srv := NewServer(config.HTTPServer{Host: "127.0.0.1", Port: port, ReadTimeout: time.Second}, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	done := make(chan error, 1)
	go func() { done <- srv.Run() }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://127.0.0.1:" + port)
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusTeapot
	}, 2*time.Second, 20*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, srv.Stop(ctx))
	require.NoError(t, <-done)
}
