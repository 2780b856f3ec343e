package domain

import (
	"fmt"
	"strings"
)

// DeliveryClass selects the capacity ceilings and handling buffers that apply
// to a shipment and its parcels.
type DeliveryClass string

const (
	ClassStandard DeliveryClass = "standard"
	ClassExpress  DeliveryClass = "express"
)

// ParseDeliveryClass normalizes caller input into a known delivery class.
func ParseDeliveryClass(s string) (DeliveryClass, error) {
	switch DeliveryClass(strings.ToLower(strings.TrimSpace(s))) {
	case ClassStandard:
		return ClassStandard, nil
	case ClassExpress:
		return ClassExpress, nil
	default:
		return "", fmt.Errorf("parse delivery class: unknown class %q", s)
	}
}

// ClassLimits are the per-class ceilings a shipment must stay under.
type ClassLimits struct {
	MaxWeightKg   float64
	MaxVolumeM3   float64
	MaxDistanceKm float64
	MaxTimeHours  float64
}

// BufferTimes are fixed handling times added around travel legs, in hours.
type BufferTimes struct {
	FirstHours        float64
	IntermediateHours float64
	LastHours         float64
}

var classLimits = map[DeliveryClass]ClassLimits{
	ClassStandard: {MaxWeightKg: 2500, MaxVolumeM3: 10, MaxDistanceKm: 300, MaxTimeHours: 72},
	ClassExpress:  {MaxWeightKg: 1000, MaxVolumeM3: 5, MaxDistanceKm: 150, MaxTimeHours: 24},
}

var classBuffers = map[DeliveryClass]BufferTimes{
	ClassStandard: {FirstHours: 2, IntermediateHours: 2, LastHours: 2},
	ClassExpress:  {FirstHours: 2, IntermediateHours: 1, LastHours: 2},
}

// LimitsFor returns the capacity ceilings for a delivery class.
func LimitsFor(class DeliveryClass) (ClassLimits, error) {
	l, ok := classLimits[class]
	if !ok {
		return ClassLimits{}, fmt.Errorf("class limits: unknown class %q", class)
	}
	return l, nil
}

// BuffersFor returns the handling buffer times for a delivery class.
func BuffersFor(class DeliveryClass) (BufferTimes, error) {
	b, ok := classBuffers[class]
	if !ok {
		return BufferTimes{}, fmt.Errorf("class buffers: unknown class %q", class)
	}
	return b, nil
}
