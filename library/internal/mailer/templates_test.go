package mailer

import (
	"testing"
	"time"

	"github.com/Astemirdum/library-lending/library/internal/model"
	"github.com/stretchr/testify/require"
)

func TestReservationConfirmed(t *testing.T) {
	user := model.User{Name: "Ann <admin>", Email: "ann@mail.com"}
	book := model.Book{Title: "Dune", Author: "Frank Herbert"}
	r := model.Reservation{ReservedDate: time.Date(2024, 5, 7, 0, 0, 0, 0, time.UTC), QueuePosition: 2}

	m, err := ReservationConfirmed(user, book, r)
	require.NoError(t, err)
	require.Equal(t, "ann@mail.com", m.To)
	require.Equal(t, "Your Book Reservation is Confirmed", m.Subject)
	require.Contains(t, m.Text, "Dear Ann <admin>,")
	require.Contains(t, m.Text, "Reservation date: 07/05/2024")
	require.Contains(t, m.Text, "Position in queue: 2")
	require.Contains(t, m.HTML, "Ann &lt;admin&gt;")
	require.Contains(t, m.HTML, "<b>Dune</b>")
}

func TestDueReminder(t *testing.T) {
	user := model.User{Name: "Bob", Email: "bob@mail.com"}
	loan := model.Loan{BookTitle: "Emma", DueDate: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)}

	tests := []struct {
		name string
		now  time.Time
		want string
	}{
		{
			name: "overdue",
			now:  time.Date(2024, 5, 4, 10, 0, 0, 0, time.UTC),
			want: `"Emma" was due on 01/05/2024 and is 3 day(s) overdue.`,
		},
		{
			name: "due soon",
			now:  time.Date(2024, 4, 30, 10, 0, 0, 0, time.UTC),
			want: `"Emma" is due on 01/05/2024.`,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			m, err := DueReminder(user, loan, tt.now)
			require.NoError(t, err)
			require.Contains(t, m.Text, tt.want)
		})
	}
}

func TestNewMsg(t *testing.T) {
	_, err := newMsg("library@localhost", model.Mail{To: "not an address", Subject: "x", Text: "y"})
	require.Error(t, err)

	msg, err := newMsg("library@localhost", model.Mail{To: "ann@mail.com", Subject: "x", Text: "y", HTML: "<p>y</p>"})
	require.NoError(t, err)
	require.NotNil(t, msg)
}

func TestPasswordResetCode(t *testing.T) {
	m, err := PasswordResetCode(model.User{Name: "Ann", Email: "ann@mail.com"}, "042517", 10*time.Minute)
	require.NoError(t, err)
	require.Equal(t, "ann@mail.com", m.To)
	require.Equal(t, "Library Password Reset Code", m.Subject)
	require.Contains(t, m.Text, "Your password reset code is 042517.")
	require.Contains(t, m.Text, "valid for 10 minutes")
	require.Contains(t, m.HTML, "<b>042517</b>")
}
