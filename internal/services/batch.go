package services

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"shipment-consolidation-service/internal/domain"
)

// BuildBatch groups a caller-selected set of parcels of one delivery class
// into a shipment draft, honoring the class weight and volume ceilings.
//
// A selection that would break a ceiling fails outright rather than being
// truncated: the operator re-selects. Mixing delivery classes fails the same
// way. The resulting draft carries aggregates and the distinct destination
// set; route and times stay empty until sequencing.
func BuildBatch(class domain.DeliveryClass, source, createdBy string, parcels []*domain.Parcel) (*domain.ShipmentDraft, error) {
	if len(parcels) == 0 {
		return nil, fmt.Errorf("build batch: %w", domain.ErrNotReadyForCreation)
	}

	limits, err := domain.LimitsFor(class)
	if err != nil {
		return nil, fmt.Errorf("build batch: %w", err)
	}

	mismatched := map[domain.DeliveryClass]int{}
	for _, p := range parcels {
		if p.DeliveryClass != class {
			mismatched[p.DeliveryClass]++
		}
	}
	if len(mismatched) > 0 {
		// Report the most frequent offending class.
		var worst domain.DeliveryClass
		for c, n := range mismatched {
			if worst == "" || n > mismatched[worst] {
				worst = c
			}
		}
		return nil, &domain.ClassMismatchError{Want: class, Got: worst, Count: mismatched[worst]}
	}

	totalWeight := 0.0
	totalVolume := 0.0
	for _, p := range parcels {
		totalWeight += p.WeightKg
		totalVolume += p.VolumeM3
	}
	if totalWeight > limits.MaxWeightKg {
		return nil, &domain.CapacityExceededError{Dimension: "weight", Limit: limits.MaxWeightKg, Actual: totalWeight}
	}
	if totalVolume > limits.MaxVolumeM3 {
		return nil, &domain.CapacityExceededError{Dimension: "volume", Limit: limits.MaxVolumeM3, Actual: totalVolume}
	}

	refs := make([]domain.ParcelRef, 0, len(parcels))
	seen := map[string]struct{}{}
	destinations := make([]string, 0, len(parcels))
	for _, p := range parcels {
		refs = append(refs, p.Ref())
		if _, ok := seen[p.Destination]; !ok {
			seen[p.Destination] = struct{}{}
			destinations = append(destinations, p.Destination)
		}
	}
	// Deterministic destination order keeps drafts stable across retries.
	sort.Strings(destinations)

	return &domain.ShipmentDraft{
		DraftID:         uuid.NewString(),
		DeliveryClass:   class,
		Source:          source,
		CreatedByCenter: createdBy,
		Parcels:         refs,
		Destinations:    destinations,
		TotalWeightKg:   totalWeight,
		TotalVolumeM3:   totalVolume,
		Phase:           domain.PhaseParcelsSelected,
	}, nil
}
