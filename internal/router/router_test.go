package router

import (
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/quizzy/internal/screen"
)

type stubScreen struct {
	title   string
	initRan bool
	resumed int
	seen    []tea.Msg
}

func (s *stubScreen) Init() tea.Cmd {
	s.initRan = true
	return nil
}

func (s *stubScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	s.seen = append(s.seen, msg)
	return s, nil
}

func (s *stubScreen) View(int, int) string { return s.title }
func (s *stubScreen) Title() string        { return s.title }

type resumingScreen struct{ stubScreen }

func (s *resumingScreen) Resume() tea.Cmd {
	s.resumed++
	return nil
}

func TestPush(t *testing.T) {
	r := New(&stubScreen{title: "home"})
	s2 := &stubScreen{title: "practice"}
	r.Push(s2)

	if r.Depth() != 2 {
		t.Errorf("depth = %d, want 2", r.Depth())
	}
	if r.Active().Title() != "practice" {
		t.Errorf("active = %q, want practice", r.Active().Title())
	}
	if !s2.initRan {
		t.Error("Init did not run on pushed screen")
	}
	if got := r.View(80, 24); got != "practice" {
		t.Errorf("view = %q", got)
	}
}

func TestPopResumesScreenBelow(t *testing.T) {
	home := &resumingScreen{stubScreen{title: "home"}}
	r := New(home)
	r.Push(&stubScreen{title: "stats"})

	r.Pop()
	if r.Depth() != 1 || r.Active().Title() != "home" {
		t.Fatalf("after pop: depth %d active %q", r.Depth(), r.Active().Title())
	}
	if home.resumed != 1 {
		t.Errorf("resumed = %d, want 1", home.resumed)
	}

	r.Pop()
	if r.Depth() != 1 {
		t.Errorf("root was popped")
	}
	if home.resumed != 1 {
		t.Errorf("popping at the root resumed again")
	}
}

func TestNavigationMessages(t *testing.T) {
	home := &stubScreen{title: "home"}
	r := New(home)

	exam := &stubScreen{title: "exam"}
	r.Update(PushScreenMsg{Screen: exam})
	if r.Active() != exam || !exam.initRan {
		t.Fatal("PushScreenMsg did not open the screen")
	}
	if len(home.seen) != 0 || len(exam.seen) != 0 {
		t.Error("navigation messages must not reach screens")
	}

	r.Update(Pop())
	if r.Active() != home {
		t.Error("PopScreenMsg did not close the screen")
	}

	msg := Push(exam)()
	if _, ok := msg.(PushScreenMsg); !ok {
		t.Errorf("Push produced %T", msg)
	}
}

func TestUpdateForwardsToActiveOnly(t *testing.T) {
	home := &stubScreen{title: "home"}
	top := &stubScreen{title: "top"}
	r := New(home)
	r.Push(top)

	r.Update("hello")
	if len(top.seen) != 1 || len(home.seen) != 0 {
		t.Errorf("top saw %d, home saw %d", len(top.seen), len(home.seen))
	}

	r.Broadcast(screen.DataChangedMsg{})
	if len(top.seen) != 2 || len(home.seen) != 1 {
		t.Errorf("broadcast: top saw %d, home saw %d", len(top.seen), len(home.seen))
	}
}
