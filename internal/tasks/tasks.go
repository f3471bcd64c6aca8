// Package tasks is a small to-do list kept alongside the timer.
package tasks

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sadopc/pomodr/internal/store"
)

type Store interface {
	LoadTasks() []store.Task
	SaveTasks([]store.Task)
}

// List caches the stored tasks, newest first, and writes every change back.
type List struct {
	store Store
	now   func() time.Time
	newID func() string
	items []store.Task
}

func NewList(st Store) *List {
	return &List{
		store: st,
		now:   time.Now,
		newID: uuid.NewString,
		items: st.LoadTasks(),
	}
}

func (l *List) Items() []store.Task {
	out := make([]store.Task, len(l.items))
	copy(out, l.items)
	return out
}

// Add puts a new task at the top of the list. Blank text is rejected.
func (l *List) Add(text string) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return false
	}
	t := store.Task{
		ID:        l.newID(),
		Text:      text,
		CreatedAt: l.now().UnixMilli(),
	}
	l.save(append([]store.Task{t}, l.items...))
	return true
}

// Toggle flips a task between open and done.
func (l *List) Toggle(id string) {
	next := l.Items()
	for i := range next {
		if next[i].ID != id {
			continue
		}
		next[i].Completed = !next[i].Completed
		next[i].CompletedAt = nil
		if next[i].Completed {
			ts := l.now().UnixMilli()
			next[i].CompletedAt = &ts
		}
		l.save(next)
		return
	}
}

func (l *List) Delete(id string) {
	next := make([]store.Task, 0, len(l.items))
	for _, t := range l.items {
		if t.ID != id {
			next = append(next, t)
		}
	}
	if len(next) != len(l.items) {
		l.save(next)
	}
}

// Stats returns the total and completed task counts.
func (l *List) Stats() (total, completed int) {
	for _, t := range l.items {
		if t.Completed {
			completed++
		}
	}
	return len(l.items), completed
}

func (l *List) save(next []store.Task) {
	l.items = next
	l.store.SaveTasks(next)
}
