package settings

import (
	"fmt"
	"strings"

	"github.com/ajxudir/pacwatch/pkg/classify"
	pkgerrors "github.com/ajxudir/pacwatch/pkg/errors"
	"github.com/ajxudir/pacwatch/pkg/filtering"
	"github.com/ajxudir/pacwatch/pkg/policy"
)

// Validate returns the first problem reported by Problems, or nil.
func (s *Settings) Validate() error {
	if problems := s.Problems(); len(problems) > 0 {
		return problems[0]
	}
	return nil
}

// Problems checks the settings and returns every problem found.
//
// It verifies:
//   - settings_version equals CurrentVersion
//   - pacman_command is set
//   - groups is non-empty and has no duplicates
//   - every rule regex compiles and every part is listed in groups
//   - every verbose rule names packages or a regex, lists known groups
//     and has a compilable regex and when-condition
//
// Returns:
//   - []error: *errors.ConfigVersionError or *errors.ValidationError values
func (s *Settings) Problems() []error {
	if s.Version != CurrentVersion {
		return []error{&pkgerrors.ConfigVersionError{Found: s.Version, Expected: CurrentVersion}}
	}

	var problems []error
	add := func(ve *pkgerrors.ValidationError) {
		problems = append(problems, ve)
	}

	if strings.TrimSpace(s.PacmanCommand) == "" {
		add(&pkgerrors.ValidationError{
			Field:    "pacman_command",
			Message:  "must not be empty",
			Expected: "a command such as \"sudo pacman\"",
		})
	}

	known := make(map[string]struct{}, len(s.Groups))
	if len(s.Groups) == 0 {
		add(&pkgerrors.ValidationError{
			Field:   "groups",
			Message: "must list at least one group",
		})
	}
	for i, g := range s.Groups {
		field := fmt.Sprintf("groups[%d]", i)
		if strings.TrimSpace(g) == "" {
			add(pkgerrors.NewValidationError(field, "group name must not be empty"))
			continue
		}
		if _, dup := known[g]; dup {
			add(pkgerrors.NewValidationError(field, fmt.Sprintf("duplicate group %q", g)))
			continue
		}
		known[g] = struct{}{}
	}

	for i, rule := range s.Rules {
		if rule.Regex == "" {
			add(pkgerrors.NewValidationError(fmt.Sprintf("rules[%d].regex", i), "must not be empty"))
			continue
		}
		re, err := filtering.CompileFull(rule.Regex)
		if err != nil {
			add(&pkgerrors.ValidationError{
				Field:    fmt.Sprintf("rules[%d].regex", i),
				Message:  err.Error(),
				Expected: "RE2 regular expression",
			})
			continue
		}
		parts := rule.Parts
		if len(parts) == 0 {
			parts = namedGroups(re.SubexpNames())
			if len(parts) == 0 {
				add(&pkgerrors.ValidationError{
					Field:   fmt.Sprintf("rules[%d].parts", i),
					Message: "no parts listed and the regex has no named groups",
				})
			}
		}
		for j, part := range parts {
			if _, ok := known[part]; !ok {
				add(&pkgerrors.ValidationError{
					Field:     fmt.Sprintf("rules[%d].parts[%d]", i, j),
					Message:   fmt.Sprintf("unknown group %q", part),
					Expected:  "a name listed in groups",
					ValidKeys: s.Groups,
				})
			}
		}
	}

	policyRules := s.PolicyRules()
	for i, rule := range s.Verbose {
		if len(rule.Packages) == 0 && rule.Regex == "" {
			add(&pkgerrors.ValidationError{
				Field:   fmt.Sprintf("verbose[%d]", i),
				Message: "rule matches no packages",
				Hint:    "set packages or regex",
			})
		}
		if !rule.All && len(rule.Groups) == 0 {
			add(&pkgerrors.ValidationError{
				Field:   fmt.Sprintf("verbose[%d]", i),
				Message: "rule matches no groups",
				Hint:    "set groups or all: true",
			})
		}
		for j, g := range rule.Groups {
			if !isBucket(known, g) {
				add(&pkgerrors.ValidationError{
					Field:     fmt.Sprintf("verbose[%d].groups[%d]", i, j),
					Message:   fmt.Sprintf("unknown group %q", g),
					Expected:  "a name listed in groups, not-installed or unknown",
					ValidKeys: s.Groups,
				})
			}
		}
		if _, err := policy.New(policyRules[i:i+1], nil); err != nil {
			field := fmt.Sprintf("verbose[%d]", i)
			if re, ok := err.(*policy.RuleError); ok {
				field = fmt.Sprintf("verbose[%d].%s", i, re.Field)
				err = re.Err
			}
			add(pkgerrors.NewValidationError(field, err.Error()))
		}
	}

	return problems
}

func isBucket(known map[string]struct{}, name string) bool {
	if _, ok := known[name]; ok {
		return true
	}
	return name == string(classify.NotInstalled) || name == string(classify.Unknown)
}

func namedGroups(names []string) []string {
	var out []string
	for _, n := range names {
		if n != "" {
			out = append(out, n)
		}
	}
	return out
}
