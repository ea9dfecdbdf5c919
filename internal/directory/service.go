package directory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jihowes/free-trial-snetinal-sub000/pkg/db/models"
	"github.com/jihowes/free-trial-snetinal-sub000/pkg/enums"
	pkgerrors "github.com/jihowes/free-trial-snetinal-sub000/pkg/errors"
)

// ListParams filters and orders a directory listing.
type ListParams struct {
	Search   string
	Category string
	Sort     enums.DirectorySort
}

// EntryDTO is the public projection of a curated trial.
type EntryDTO struct {
	ID               uuid.UUID              `json:"id"`
	ServiceName      string                 `json:"service_name"`
	TrialLengthDays  int                    `json:"trial_length_days"`
	Category         string                 `json:"category"`
	Regions          []string               `json:"regions"`
	AffiliateURL     string                 `json:"affiliate_url"`
	SentinelScore    int                    `json:"sentinel_score"`
	Description      string                 `json:"description"`
	MonthlyPrice     decimal.Decimal        `json:"monthly_price"`
	BillingFrequency enums.BillingFrequency `json:"billing_frequency"`
	CreatedAt        time.Time              `json:"created_at"`
}

// Service exposes the curated trial directory.
type Service interface {
	List(ctx context.Context, params ListParams) ([]EntryDTO, error)
}

type service struct {
	repo Repository
}

// NewService builds a directory service with the required dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "directory repo is required")
	}
	return &service{repo: repo}, nil
}

// List fetches the active catalog and applies search, category and ordering
// in memory. The catalog is small enough that the store only ever answers one
// shape of query.
func (s *service) List(ctx context.Context, params ListParams) ([]EntryDTO, error) {
	curated, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load curated trials")
	}

	search := strings.ToLower(strings.TrimSpace(params.Search))
	category := strings.TrimSpace(params.Category)

	filtered := make([]models.CuratedTrial, 0, len(curated))
	for _, entry := range curated {
		if category != "" && !strings.EqualFold(entry.Category, category) {
			continue
		}
		if search != "" && !matchesSearch(entry, search) {
			continue
		}
		filtered = append(filtered, entry)
	}

	sortEntries(filtered, params.Sort)

	result := make([]EntryDTO, 0, len(filtered))
	for _, entry := range filtered {
		result = append(result, toEntryDTO(entry))
	}
	return result, nil
}

func matchesSearch(entry models.CuratedTrial, loweredSearch string) bool {
	haystacks := []string{entry.ServiceName, entry.Description, entry.Category}
	for _, field := range haystacks {
		if strings.Contains(strings.ToLower(field), loweredSearch) {
			return true
		}
	}
	return false
}

func sortEntries(entries []models.CuratedTrial, order enums.DirectorySort) {
	switch order {
	case enums.DirectorySortName:
		sort.SliceStable(entries, func(i, j int) bool {
			return strings.ToLower(entries[i].ServiceName) < strings.ToLower(entries[j].ServiceName)
		})
	default:
		// score ordering, best offers first
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].SentinelScore > entries[j].SentinelScore
		})
	}
}

func toEntryDTO(entry models.CuratedTrial) EntryDTO {
	return EntryDTO{
		ID:               entry.ID,
		ServiceName:      entry.ServiceName,
		TrialLengthDays:  entry.TrialLengthDays,
		Category:         entry.Category,
		Regions:          entry.Regions,
		AffiliateURL:     entry.AffiliateURL,
		SentinelScore:    entry.SentinelScore,
		Description:      entry.Description,
		MonthlyPrice:     entry.MonthlyPrice,
		BillingFrequency: entry.BillingFrequency,
		CreatedAt:        entry.CreatedAt,
	}
}
