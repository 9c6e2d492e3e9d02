package services

import (
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var defaultGrades = []struct {
	Name        string
	Level       int
	Description string
	MaxStudents int
}{
	{"Primero Básico", 1, "Primer grado del ciclo básico", 30},
	{"Segundo Básico", 2, "Segundo grado del ciclo básico", 30},
	{"Tercero Básico", 3, "Tercer grado del ciclo básico", 30},
}

// EnsureDefaultGrades creates the básico grade levels on first boot so
// registration has something to attach students to.
func EnsureDefaultGrades(db *sqlx.DB) error {
	for _, grade := range defaultGrades {
		var exists bool
		if err := db.Get(&exists, `SELECT EXISTS(SELECT 1 FROM grades WHERE level = $1)`, grade.Level); err != nil {
			return err
		}
		if exists {
			continue
		}
		_, err := db.Exec(`
INSERT INTO grades (id, name, level, description, max_students, created_at)
VALUES ($1,$2,$3,$4,$5,$6)
`, uuid.NewString(), grade.Name, grade.Level, grade.Description, grade.MaxStudents, time.Now().UTC())
		if err != nil {
			return err
		}
	}
	return nil
}
