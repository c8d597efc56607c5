package jar_parser

import (
	"errors"
	"github.com/Masterminds/semver/v3"
	"regexp"
	"strings"
)

// one maven range: opening bracket, lower bound, optional comma, upper bound, closing bracket
var regexVersionRange = regexp.MustCompile(`^([(\[])([^,\[\]()]*)(,?)([^,\[\]()]*)([)\]])`)

var ErrInvalidForgeVersionRange = errors.New("invalid forge version range")

type forgeVersionEnd struct {
	V        *semver.Version
	included bool
}

func parseForgeVersionEnd(s string, included bool) (*forgeVersionEnd, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	version, err := semver.NewVersion(s)
	if err != nil {
		return nil, err
	}
	return &forgeVersionEnd{version, included}, nil
}

// ForgeVersionRange converts a maven version range as used in mods.toml into
// semver constraints. A bare version is a soft requirement and accepts that
// version or anything newer.
func ForgeVersionRange(s string) (*semver.Constraints, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "*" {
		return semver.NewConstraint("*")
	}
	if s[0] != '[' && s[0] != '(' {
		v, err := semver.NewVersion(s)
		if err != nil {
			return nil, err
		}
		return semver.NewConstraint(">=" + v.String())
	}

	var ranges []string
	for len(s) > 0 {
		submatch := regexVersionRange.FindStringSubmatch(s)
		if submatch == nil {
			return nil, ErrInvalidForgeVersionRange
		}
		r, err := forgeRange(submatch)
		if err != nil {
			return nil, err
		}
		ranges = append(ranges, r)

		s = strings.TrimSpace(s[len(submatch[0]):])
		if len(s) > 0 {
			if s[0] != ',' {
				return nil, ErrInvalidForgeVersionRange
			}
			s = strings.TrimSpace(s[1:])
		}
	}
	return semver.NewConstraint(strings.Join(ranges, " || "))
}

func forgeRange(submatch []string) (string, error) {
	open, lower, comma, upper, closing := submatch[1], submatch[2], submatch[3], submatch[4], submatch[5]

	// [1.20.4] pins a single version
	if comma == "" {
		if open != "[" || closing != "]" || upper != "" {
			return "", ErrInvalidForgeVersionRange
		}
		v, err := parseForgeVersionEnd(lower, true)
		if err != nil {
			return "", err
		}
		if v == nil {
			return "", ErrInvalidForgeVersionRange
		}
		return "=" + v.V.String(), nil
	}

	start, err := parseForgeVersionEnd(lower, open == "[")
	if err != nil {
		return "", err
	}
	end, err := parseForgeVersionEnd(upper, closing == "]")
	if err != nil {
		return "", err
	}
	if start == nil && end == nil {
		return "*", nil
	}

	var sb strings.Builder
	if start != nil {
		sb.WriteByte('>')
		if start.included {
			sb.WriteByte('=')
		}
		sb.WriteString(start.V.String())
		if end != nil {
			sb.WriteByte(' ')
		}
	}
	if end != nil {
		sb.WriteByte('<')
		if end.included {
			sb.WriteByte('=')
		}
		sb.WriteString(end.V.String())
	}
	return sb.String(), nil
}
