package session

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/flashstudy/internal/models"
	"github.com/vytor/flashstudy/internal/quiz"
)

func TestNewSessionDefaults(t *testing.T) {
	s := New("alice")
	assert.NotEmpty(t, s.ID)
	assert.Equal(t, "alice", s.Username)
	assert.Equal(t, 0, s.Cards.Len())
	assert.Equal(t, models.DefaultTheme(), s.Theme)
	assert.Equal(t, quiz.Idle, s.Quiz.State())
}

func TestManagerOpenReplacesPrevious(t *testing.T) {
	m := NewManager()

	first := m.Open("alice")
	_, err := first.Cards.Add("q", "a", "")
	require.NoError(t, err)

	second := m.Open("alice")
	assert.NotEqual(t, first.ID, second.ID)
	assert.Nil(t, m.Get("alice", first.ID))
	assert.Same(t, second, m.Get("alice", second.ID))
	assert.Equal(t, 0, first.Cards.Len())
	assert.Equal(t, 1, m.Len())
}

func TestManagerClose(t *testing.T) {
	m := NewManager()
	s := m.Open("alice")
	_, err := s.Cards.Add("q", "a", "")
	require.NoError(t, err)
	require.NoError(t, s.Quiz.Start(s.Cards.Snapshot()))

	assert.False(t, m.Close("alice", "other-id"))
	assert.True(t, m.Close("alice", s.ID))
	assert.False(t, m.Close("alice", s.ID))

	assert.Nil(t, m.Get("alice", s.ID))
	assert.Equal(t, 0, s.Cards.Len())
	assert.Equal(t, quiz.Idle, s.Quiz.State())
	assert.Equal(t, 0, m.Len())
}

func TestManagerSeparateUsers(t *testing.T) {
	m := NewManager()
	a := m.Open("alice")
	b := m.Open("bob")

	assert.Same(t, a, m.Get("alice", a.ID))
	assert.Same(t, b, m.Get("bob", b.ID))
	assert.Nil(t, m.Get("bob", a.ID))
}

func TestSessionDoSerializes(t *testing.T) {
	s := New("alice")
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.Do(func(s *Session) error {
				_, err := s.Cards.Add("q", "a", "")
				return err
			})
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, s.Cards.Len())
}

func TestManagerQuizOptions(t *testing.T) {
	calls := 0
	m := NewManager(quiz.WithShuffle(func(n int, swap func(i, j int)) { calls++ }))
	s := m.Open("alice")
	_, err := s.Cards.Add("q", "a", "")
	require.NoError(t, err)
	require.NoError(t, s.Quiz.Start(s.Cards.Snapshot()))
	assert.Equal(t, 1, calls)
}
