package config

import "time"

const (
	// MaxProjectTitleLength is the maximum length for project titles.
	MaxProjectTitleLength = 255

	// MaxProjectDescriptionLength bounds project descriptions.
	MaxProjectDescriptionLength = 20000

	// MaxCategoryLength is the maximum length for a project category.
	MaxCategoryLength = 100

	// MaxSkillNameLength is the maximum length for a skill name.
	MaxSkillNameLength = 50

	// MaxSkillsPerProject caps how many skills one project can list.
	MaxSkillsPerProject = 30

	// MaxCoverLetterLength bounds proposal cover letters.
	MaxCoverLetterLength = 10000

	// MaxFullNameLength is the maximum length for account display names.
	MaxFullNameLength = 255

	// MinPasswordLength is the shortest accepted password.
	MinPasswordLength = 8
)

const (
	// DefaultLoginMaxAttempts is how many login attempts one ip:email pair
	// gets per window.
	DefaultLoginMaxAttempts = 5

	// DefaultLoginWindow is the fixed window length for login attempts.
	DefaultLoginWindow = 15 * time.Minute
)
