package sqlrepo

import (
	"context"
	"fmt"

	"marketplace/internal/domain/repositories"
)

// SkillRepository implements repositories.SkillRepository
type SkillRepository struct {
	store repositories.Store
}

// NewSkillRepository creates a new skill repository
func NewSkillRepository(store repositories.Store) *SkillRepository {
	return &SkillRepository{store: store}
}

// Upsert returns the id of the named skill, inserting it first if needed
func (r *SkillRepository) Upsert(ctx context.Context, name string) (int64, error) {
	if _, err := r.store.Execute(ctx,
		`INSERT INTO skills (name) VALUES (?) ON CONFLICT (name) DO NOTHING`, name); err != nil {
		return 0, fmt.Errorf("upsert skill %q: %w", name, err)
	}

	var id int64
	if err := r.store.QueryOne(ctx, `SELECT id FROM skills WHERE name = ?`, name).Scan(&id); err != nil {
		return 0, fmt.Errorf("get skill %q: %w", name, err)
	}
	return id, nil
}

// ReplaceProjectSkills clears every link of the project, then links skillIDs.
// An empty skillIDs leaves the project with no skills.
func (r *SkillRepository) ReplaceProjectSkills(ctx context.Context, projectID int64, skillIDs []int64) error {
	return r.store.ExecTx(ctx, func(ctx context.Context) error {
		if _, err := r.store.Execute(ctx,
			`DELETE FROM project_skills WHERE project_id = ?`, projectID); err != nil {
			return fmt.Errorf("clear project skills: %w", err)
		}

		for _, skillID := range skillIDs {
			if _, err := r.store.Execute(ctx,
				`INSERT INTO project_skills (project_id, skill_id) VALUES (?, ?) ON CONFLICT DO NOTHING`,
				projectID, skillID); err != nil {
				return fmt.Errorf("link skill %d: %w", skillID, err)
			}
		}
		return nil
	})
}

// ListProjectSkills returns the skill names linked to a project
func (r *SkillRepository) ListProjectSkills(ctx context.Context, projectID int64) ([]string, error) {
	return listSkillNames(ctx, r.store, projectID)
}

func listSkillNames(ctx context.Context, store repositories.Store, projectID int64) ([]string, error) {
	rows, err := store.Query(ctx, `
		SELECT s.name
		FROM skills s
		JOIN project_skills ps ON ps.skill_id = s.id
		WHERE ps.project_id = ?
		ORDER BY s.name
	`, projectID)
	if err != nil {
		return nil, fmt.Errorf("list project skills: %w", err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan skill: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate skills: %w", err)
	}

	return names, nil
}
