package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/insure-assist/insure-assist/internal/catalog"
	"github.com/insure-assist/insure-assist/internal/models"
	"github.com/insure-assist/insure-assist/internal/policy"
	"github.com/insure-assist/insure-assist/internal/purchase"
	"github.com/insure-assist/insure-assist/internal/rag"
)

const retrieveTopK = 3

// Generator produces grounded answer text; it must always return text.
type Generator interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string) string
}

// Result is the outcome of one chat turn.
type Result struct {
	Response       string `json:"response"`
	PolicyNumber   string `json:"policy_number,omitempty"`
	RequiresPolicy bool   `json:"requires_policy"`
	BookingIntent  bool   `json:"booking_intent"`
}

// Service orchestrates one request/response cycle: intent routing, policy
// resolution, purchase delegation, retrieval, and grounded generation.
type Service struct {
	policies  *policy.Repo
	catalog   *catalog.Repo
	purchaser *purchase.Engine
	retriever *rag.Engine
	llm       Generator
}

func NewService(policies *policy.Repo, catalogRepo *catalog.Repo, purchaser *purchase.Engine, retriever *rag.Engine, llm Generator) *Service {
	return &Service{
		policies:  policies,
		catalog:   catalogRepo,
		purchaser: purchaser,
		retriever: retriever,
		llm:       llm,
	}
}

// Respond handles one chat turn. Errors are database-level only; all
// classification, resolution, retrieval, and generation outcomes map to
// text responses.
func (s *Service) Respond(ctx context.Context, message string, user *models.User, explicitRef string) (Result, error) {
	userMessage := strings.TrimSpace(message)
	if userMessage == "" {
		return Result{Response: "Please type your question so I can help."}, nil
	}

	views, err := s.catalog.ListCatalog(ctx)
	if err != nil {
		return Result{}, err
	}

	if isPlanDiscovery(userMessage) || isBookingIntent(userMessage) {
		return Result{
			Response:      "I can help you buy a new policy.\n" + formatProductsForChat(views),
			BookingIntent: true,
		}, nil
	}

	if isPurchaseIntent(userMessage) {
		return s.respondPurchase(ctx, userMessage, user, views)
	}

	candidate, short, err := s.resolveCandidate(ctx, userMessage, user, explicitRef)
	if err != nil {
		return Result{}, err
	}
	if short != nil {
		return *short, nil
	}

	found, err := s.policies.FindByNumber(ctx, candidate)
	if err != nil {
		return Result{}, err
	}
	if found == nil {
		return Result{
			Response: fmt.Sprintf(
				"I could not find policy number %s. Please verify the number or say 'show available plans'.",
				candidate,
			),
			PolicyNumber:   candidate,
			RequiresPolicy: true,
		}, nil
	}

	if user != nil && found.UserID != user.ID {
		return Result{
			Response:       "This policy number is not linked to your account. Please provide your own policy number.",
			RequiresPolicy: true,
		}, nil
	}

	if isAddonQuery(userMessage) {
		recommendations, err := s.catalog.RecommendedAddonViews(ctx, found.InsuranceType, retrieveTopK)
		if err != nil {
			return Result{}, err
		}
		if len(recommendations) > 0 {
			lines := make([]string, 0, len(recommendations))
			for _, item := range recommendations {
				lines = append(lines, fmt.Sprintf("- %s | %s | Premium: %g | %s",
					item.AddonCode, item.Name, item.AddonPremium, item.Description))
			}
			return Result{
				Response: fmt.Sprintf(
					"Recommended add-on packs for your %s policy:\n%s\n"+
						"To buy a new policy with add-ons, say: buy <PRODUCT_CODE> with <ADDON_CODE>.",
					titleCase(found.InsuranceType), strings.Join(lines, "\n"),
				),
				PolicyNumber: found.PolicyNumber,
			}, nil
		}
	}

	serialized := policy.Serialize(found)
	policyContext := policy.FormatForPrompt(serialized)
	ragChunks := s.retriever.Retrieve(ctx, userMessage, retrieveTopK)

	answer := s.llm.Generate(ctx, systemPrompt(), buildUserPrompt(userMessage, policyContext, ragChunks))

	if serialized.IsExpired && serialized.EndDate != "" && !strings.Contains(strings.ToLower(answer), "expired") {
		answer = fmt.Sprintf(
			"%s\n\nNote: policy %s expired on %s. Renewal is required before new claims can be processed.",
			answer, found.PolicyNumber, serialized.EndDate,
		)
	}

	return Result{
		Response:     answer,
		PolicyNumber: found.PolicyNumber,
	}, nil
}

func (s *Service) respondPurchase(ctx context.Context, userMessage string, user *models.User, views []catalog.ProductView) (Result, error) {
	productCode, addonCodes := extractCatalogCodes(userMessage, views)
	if productCode == "" {
		return Result{
			Response: "I detected purchase intent but couldn't find a valid product code in your message.\n" +
				formatProductsForChat(views),
			BookingIntent: true,
		}, nil
	}

	if user == nil {
		return Result{
			Response:      "Please login first to buy a new policy.",
			BookingIntent: true,
		}, nil
	}

	purchased, err := s.purchaser.Buy(ctx, user.ID, productCode, addonCodes)
	if err != nil {
		var invalidAddons *purchase.InvalidAddonError
		if errors.Is(err, purchase.ErrInvalidProduct) || errors.As(err, &invalidAddons) {
			return Result{
				Response:      fmt.Sprintf("Purchase failed: %s", err),
				BookingIntent: true,
			}, nil
		}
		return Result{}, err
	}

	addonInfo := ""
	if len(purchased.Addons) > 0 {
		names := make([]string, 0, len(purchased.Addons))
		for _, a := range purchased.Addons {
			names = append(names, a.Name)
		}
		addonInfo = fmt.Sprintf(" Add-ons applied: %s.", strings.Join(names, ", "))
	}

	return Result{
		Response: fmt.Sprintf(
			"Policy purchase successful. Your new policy number is %s for %s insurance.%s",
			purchased.PolicyNumber, titleCase(purchased.InsuranceType), addonInfo,
		),
		PolicyNumber:  purchased.PolicyNumber,
		BookingIntent: true,
	}, nil
}

func formatProductsForChat(views []catalog.ProductView) string {
	if len(views) == 0 {
		return "No plans are available right now."
	}

	lines := []string{"Available insurance plans:"}
	for _, p := range views {
		lines = append(lines, fmt.Sprintf(
			"- %s | %s | Type: %s | Coverage: %g | Premium: %g",
			p.ProductCode, p.Name, titleCase(p.InsuranceType), p.CoverageLimit, p.Premium,
		))
		if len(p.Addons) > 0 {
			codes := make([]string, 0, len(p.Addons))
			for _, a := range p.Addons {
				codes = append(codes, a.AddonCode)
			}
			lines = append(lines, "  Add-ons: "+strings.Join(codes, ", "))
		}
	}
	lines = append(lines, "To buy via chat, type: buy <PRODUCT_CODE> with <ADDON_CODE_1>,<ADDON_CODE_2>")
	return strings.Join(lines, "\n")
}

// extractCatalogCodes substring-matches the uppercased message against the
// catalog's product and addon codes.
func extractCatalogCodes(message string, views []catalog.ProductView) (string, []string) {
	upper := strings.ToUpper(message)
	var productCode string
	var addonCodes []string
	seen := make(map[string]bool)

	for _, p := range views {
		code := strings.ToUpper(p.ProductCode)
		if strings.Contains(upper, code) {
			productCode = code
		}
		for _, a := range p.Addons {
			addonCode := strings.ToUpper(a.AddonCode)
			if strings.Contains(upper, addonCode) && !seen[addonCode] {
				seen[addonCode] = true
				addonCodes = append(addonCodes, addonCode)
			}
		}
	}
	return productCode, addonCodes
}
