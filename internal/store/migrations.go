package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Recordings table - one row per captured session of landmark frames
		`CREATE TABLE IF NOT EXISTS recordings (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			source TEXT NOT NULL CHECK(source IN ('camera', 'api', 'demo')),
			frames INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Recording frames table - one classified landmark frame per row
		`CREATE TABLE IF NOT EXISTS recording_frames (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			recording_id TEXT NOT NULL REFERENCES recordings(id) ON DELETE CASCADE,
			sequence INTEGER NOT NULL,
			detected_at_ms INTEGER NOT NULL,
			finger_count INTEGER NOT NULL,
			valid INTEGER NOT NULL,
			data TEXT NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_recording_frames_recording_id ON recording_frames(recording_id, sequence)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
