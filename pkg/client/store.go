package client

import (
	"context"
	"sync"
)

// RequestState tracks the lifecycle of the latest request touching a
// slice of the store.
type RequestState string

const (
	StateIdle      RequestState = "idle"
	StatePending   RequestState = "pending"
	StateFulfilled RequestState = "fulfilled"
	StateRejected  RequestState = "rejected"
)

// Theme is the UI color scheme preference.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// AuthState is the authentication slice: who is signed in and how the
// last auth request went.
type AuthState struct {
	User  *User
	Token string
	State RequestState
	Error string
}

// TasksState is the task collection slice. Tasks holds the last
// successfully loaded collection; it survives a failed refresh.
type TasksState struct {
	Tasks []Task
	State RequestState
	Error string
}

// UIState carries presentation preferences.
type UIState struct {
	Filter string
	Theme  Theme
}

// Snapshot is an immutable copy of the whole store handed to
// subscribers and readers.
type Snapshot struct {
	Auth  AuthState
	Tasks TasksState
	UI    UIState
}

// Stats summarizes the currently loaded task collection.
type Stats struct {
	Total        int
	Completed    int
	Pending      int
	HighPriority int
}

// Listener receives a snapshot after every state change.
type Listener func(Snapshot)

// Store keeps client-side state for an uptask session: the auth slice,
// the task collection and UI preferences. Actions issue requests
// through the underlying Client and fold results back in.
//
// Each slice carries a sequence counter. An action records the counter
// value when it starts and applies its result only if no newer action
// on the same slice started in the meantime, so a slow stale response
// can never overwrite fresher data.
type Store struct {
	client  *Client
	persist *Storage

	mu        sync.Mutex
	auth      AuthState
	tasks     TasksState
	ui        UIState
	authSeq   uint64
	tasksSeq  uint64
	listeners map[int]Listener
	nextSub   int
}

// NewStore builds a Store around the given client. persist may be nil,
// in which case nothing is written to disk.
func NewStore(c *Client, persist *Storage) *Store {
	s := &Store{
		client:    c,
		persist:   persist,
		auth:      AuthState{State: StateIdle},
		tasks:     TasksState{Tasks: []Task{}, State: StateIdle},
		ui:        UIState{Filter: "all", Theme: ThemeLight},
		listeners: make(map[int]Listener),
	}
	if persist != nil {
		if theme, err := persist.LoadTheme(); err == nil && theme != "" {
			s.ui.Theme = theme
		}
	}
	return s
}

// Subscribe registers a listener called after every state change. The
// returned function removes it.
func (s *Store) Subscribe(fn Listener) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// State returns a copy of the current store state.
func (s *Store) State() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() Snapshot {
	snap := Snapshot{Auth: s.auth, Tasks: s.tasks, UI: s.ui}
	snap.Tasks.Tasks = append([]Task(nil), s.tasks.Tasks...)
	if s.auth.User != nil {
		u := *s.auth.User
		snap.Auth.User = &u
	}
	return snap
}

func (s *Store) notifyLocked() {
	snap := s.snapshotLocked()
	fns := make([]Listener, 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.Unlock()
	for _, fn := range fns {
		fn(snap)
	}
	s.mu.Lock()
}

// Register creates an account and signs the new user in.
func (s *Store) Register(ctx context.Context, name, email, password string) error {
	seq := s.beginAuth()
	session, err := s.client.Register(ctx, name, email, password)
	return s.finishAuth(seq, session, err)
}

// Login signs in with credentials.
func (s *Store) Login(ctx context.Context, email, password string) error {
	seq := s.beginAuth()
	session, err := s.client.Login(ctx, email, password)
	return s.finishAuth(seq, session, err)
}

func (s *Store) beginAuth() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.authSeq++
	seq := s.authSeq
	s.auth.State = StatePending
	s.auth.Error = ""
	s.notifyLocked()
	return seq
}

func (s *Store) finishAuth(seq uint64, session Session, err error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.authSeq {
		return err
	}
	if err != nil {
		s.auth.State = StateRejected
		s.auth.Error = errMessage(err)
		s.notifyLocked()
		return err
	}

	u := session.User
	s.auth = AuthState{User: &u, Token: session.Token, State: StateFulfilled}
	s.client.SetToken(session.Token)
	if s.persist != nil {
		if perr := s.persist.SaveSession(session); perr != nil {
			s.auth.Error = perr.Error()
		}
	}
	s.notifyLocked()
	return nil
}

// RestoreSession loads a persisted session, verifies the token against
// the server and signs the user back in. Returns false when no valid
// session exists; a stale session file is cleared.
func (s *Store) RestoreSession(ctx context.Context) (bool, error) {
	if s.persist == nil {
		return false, nil
	}
	session, err := s.persist.LoadSession()
	if err != nil || session.Token == "" {
		return false, nil
	}

	seq := s.beginAuth()
	s.client.SetToken(session.Token)
	user, err := s.client.Me(ctx)
	if err != nil {
		if IsUnauthorized(err) {
			s.persist.ClearSession()
			s.client.SetToken("")
			s.mu.Lock()
			if seq == s.authSeq {
				s.auth = AuthState{State: StateIdle}
				s.notifyLocked()
			}
			s.mu.Unlock()
			return false, nil
		}
		s.mu.Lock()
		if seq == s.authSeq {
			s.auth.State = StateRejected
			s.auth.Error = errMessage(err)
			s.notifyLocked()
		}
		s.mu.Unlock()
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.authSeq {
		return false, nil
	}
	s.auth = AuthState{User: &user, Token: session.Token, State: StateFulfilled}
	s.notifyLocked()
	return true, nil
}

// Logout clears the session locally. No server call is involved: the
// token simply stops being used.
func (s *Store) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.authSeq++
	s.tasksSeq++
	s.auth = AuthState{State: StateIdle}
	s.tasks = TasksState{Tasks: []Task{}, State: StateIdle}
	s.client.SetToken("")
	if s.persist != nil {
		s.persist.ClearSession()
	}
	s.notifyLocked()
}

// FetchTasks loads the task collection, filtered to the given status
// when non-empty.
func (s *Store) FetchTasks(ctx context.Context, status string) error {
	seq := s.beginTasks()
	tasks, err := s.client.Tasks(ctx, status)
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.tasksSeq {
		return err
	}
	if err != nil {
		s.tasks.State = StateRejected
		s.tasks.Error = errMessage(err)
		s.notifyLocked()
		return err
	}
	if tasks == nil {
		tasks = []Task{}
	}
	s.tasks = TasksState{Tasks: tasks, State: StateFulfilled}
	s.notifyLocked()
	return nil
}

// CreateTask creates a task and appends it to the loaded collection.
func (s *Store) CreateTask(ctx context.Context, draft TaskDraft) (Task, error) {
	seq := s.beginTasks()
	task, err := s.client.CreateTask(ctx, draft)
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.tasksSeq {
		return task, err
	}
	if err != nil {
		s.tasks.State = StateRejected
		s.tasks.Error = errMessage(err)
		s.notifyLocked()
		return Task{}, err
	}
	s.tasks.Tasks = append(s.tasks.Tasks, task)
	s.tasks.State = StateFulfilled
	s.tasks.Error = ""
	s.notifyLocked()
	return task, nil
}

// UpdateTask applies a partial update and replaces the matching task in
// the loaded collection.
func (s *Store) UpdateTask(ctx context.Context, id string, patch TaskPatch) (Task, error) {
	seq := s.beginTasks()
	task, err := s.client.UpdateTask(ctx, id, patch)
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.tasksSeq {
		return task, err
	}
	if err != nil {
		s.tasks.State = StateRejected
		s.tasks.Error = errMessage(err)
		s.notifyLocked()
		return Task{}, err
	}
	for i := range s.tasks.Tasks {
		if s.tasks.Tasks[i].ID == task.ID {
			s.tasks.Tasks[i] = task
			break
		}
	}
	s.tasks.State = StateFulfilled
	s.tasks.Error = ""
	s.notifyLocked()
	return task, nil
}

// DeleteTask removes a task on the server and from the loaded
// collection.
func (s *Store) DeleteTask(ctx context.Context, id string) error {
	seq := s.beginTasks()
	err := s.client.DeleteTask(ctx, id)
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.tasksSeq {
		return err
	}
	if err != nil {
		s.tasks.State = StateRejected
		s.tasks.Error = errMessage(err)
		s.notifyLocked()
		return err
	}
	kept := s.tasks.Tasks[:0]
	for _, t := range s.tasks.Tasks {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	s.tasks.Tasks = kept
	s.tasks.State = StateFulfilled
	s.tasks.Error = ""
	s.notifyLocked()
	return nil
}

func (s *Store) beginTasks() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasksSeq++
	seq := s.tasksSeq
	s.tasks.State = StatePending
	s.tasks.Error = ""
	s.notifyLocked()
	return seq
}

// SetFilter records the status filter used by the UI. Accepted values
// are "all", "pending" and "completed"; anything else is ignored.
func (s *Store) SetFilter(filter string) {
	switch filter {
	case "all", "pending", "completed":
	default:
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ui.Filter = filter
	s.notifyLocked()
}

// SetTheme records and persists the theme preference.
func (s *Store) SetTheme(theme Theme) {
	if theme != ThemeLight && theme != ThemeDark {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ui.Theme = theme
	if s.persist != nil {
		s.persist.SaveTheme(theme)
	}
	s.notifyLocked()
}

// ToggleTheme flips between light and dark.
func (s *Store) ToggleTheme() {
	s.mu.Lock()
	next := ThemeDark
	if s.ui.Theme == ThemeDark {
		next = ThemeLight
	}
	s.mu.Unlock()
	s.SetTheme(next)
}

// Stats computes dashboard counters over the currently loaded
// collection.
func (s *Store) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := Stats{Total: len(s.tasks.Tasks)}
	for _, t := range s.tasks.Tasks {
		switch t.Status {
		case "completed":
			st.Completed++
		case "pending":
			st.Pending++
		}
		if t.Priority == "high" {
			st.HighPriority++
		}
	}
	return st
}

// FilteredTasks returns the loaded tasks matching the current UI
// filter.
func (s *Store) FilteredTasks() []Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ui.Filter == "all" || s.ui.Filter == "" {
		return append([]Task(nil), s.tasks.Tasks...)
	}
	out := []Task{}
	for _, t := range s.tasks.Tasks {
		if t.Status == s.ui.Filter {
			out = append(out, t)
		}
	}
	return out
}

func errMessage(err error) string {
	if apiErr, ok := err.(*APIError); ok {
		return apiErr.Message
	}
	return err.Error()
}
