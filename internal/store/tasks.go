package store

// LoadTasks returns the task list, newest first.
func (s *Store) LoadTasks() []Task {
	tasks := Load[[]Task](s, KeyTasks, nil)
	if tasks == nil {
		return []Task{}
	}
	return tasks
}

func (s *Store) SaveTasks(tasks []Task) {
	if tasks == nil {
		tasks = []Task{}
	}
	Save(s, KeyTasks, tasks)
}
