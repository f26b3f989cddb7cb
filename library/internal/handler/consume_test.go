package handler

import (
	"context"
	"testing"

	"github.com/Astemirdum/library-lending/library/internal/model"
	"github.com/IBM/sarama"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMailConsumer_handle(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		value   string
		sendErr error
		want    []model.Mail
	}{
		{
			name:  "ok",
			value: `{"to":"ann@mail.com","subject":"Library Loan Reminder","text":"hi"}`,
			want:  []model.Mail{{To: "ann@mail.com", Subject: "Library Loan Reminder", Text: "hi"}},
		},
		{
			name:  "garbage is skipped",
			value: `{"to":`,
		},
		{
			name:    "send failure is swallowed",
			value:   `{"to":"ann@mail.com"}`,
			sendErr: errors.New("smtp down"),
			want:    []model.Mail{{To: "ann@mail.com"}},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var got []model.Mail
			c := NewMailConsumer(func(ctx context.Context, m model.Mail) error {
				_, ok := ctx.Deadline()
				require.True(t, ok)
				got = append(got, m)
				return tt.sendErr
			}, zap.NewNop())

			c.handle(context.Background(), &sarama.ConsumerMessage{Value: []byte(tt.value)})
			require.Equal(t, tt.want, got)
		})
	}
}
