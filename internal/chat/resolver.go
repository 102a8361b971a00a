package chat

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/insure-assist/insure-assist/internal/models"
	"github.com/insure-assist/insure-assist/internal/policy"
)

// resolveCandidate turns ambiguous input into exactly one policy reference.
// It returns either a normalized candidate number, or a terminal guidance
// Result when the choice must go back to the user (disambiguation, no
// active policies, no reference at all).
func (s *Service) resolveCandidate(ctx context.Context, message string, user *models.User, explicitRef string) (string, *Result, error) {
	if ref := policy.NormalizeNumber(explicitRef); ref != "" {
		return ref, nil, nil
	}
	if token := extractPolicyToken(message); token != "" {
		return token, nil, nil
	}

	if user != nil {
		active, err := s.policies.ListActiveByUser(ctx, user.ID)
		if err != nil {
			return "", nil, err
		}
		switch {
		case len(active) == 1:
			return active[0].PolicyNumber, nil, nil
		case len(active) > 1:
			types := make(map[string]bool)
			numbers := make([]string, 0, len(active))
			for _, p := range active {
				types[titleCase(p.InsuranceType)] = true
				numbers = append(numbers, p.PolicyNumber)
			}
			typeList := make([]string, 0, len(types))
			for t := range types {
				typeList = append(typeList, t)
			}
			sort.Strings(typeList)
			return "", &Result{
				Response: fmt.Sprintf(
					"You have multiple active policies (%s). Which one do you want details about? Share policy number: %s",
					strings.Join(typeList, ", "), strings.Join(numbers, ", "),
				),
				RequiresPolicy: true,
			}, nil
		default:
			total, err := s.policies.ListByUser(ctx, user.ID)
			if err != nil {
				return "", nil, err
			}
			if len(total) > 0 {
				return "", &Result{
					Response: "You currently have no active policy. You can renew an existing one " +
						"or buy a new plan. Say 'show available plans'.",
					RequiresPolicy: true,
					BookingIntent:  true,
				}, nil
			}
		}
	}

	return "", &Result{
		Response: "Please provide your policy number to continue. " +
			"If you do not have one, say 'show available plans' to book policy.",
		RequiresPolicy: true,
	}, nil
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}
