package backdrop

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetAndCurrent(t *testing.T) {
	s := New()
	assert.Empty(t, s.Current())

	s.Set("https://img/a.jpg")
	assert.Equal(t, "https://img/a.jpg", s.Current())

	s.Set("")
	assert.Empty(t, s.Current())
}

func TestSubscribeKeepsLatestValue(t *testing.T) {
	s := New()
	ch := s.Subscribe()

	s.Set("a")
	s.Set("b")
	s.Set("c")

	assert.Equal(t, "c", <-ch)
	select {
	case v := <-ch:
		t.Fatalf("unexpected extra value %q", v)
	default:
	}
}

func TestSetSameValueDoesNotNotify(t *testing.T) {
	s := New()
	s.Set("a")
	ch := s.Subscribe()

	s.Set("a")

	select {
	case v := <-ch:
		t.Fatalf("unexpected value %q", v)
	default:
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	s := New()
	ch := s.Subscribe()

	s.Unsubscribe(ch)
	s.Set("x")

	_, ok := <-ch
	assert.False(t, ok)
	s.Unsubscribe(ch)
}
