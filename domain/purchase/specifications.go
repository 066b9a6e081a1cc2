package purchase

import (
	"context"
	"time"

	"pos/domain/shared"
)

// ByStoreSpecification filters transactions recorded at a store, optionally a single register
type ByStoreSpecification struct {
	StoreCode string
	PosNo     string
}

func (spec ByStoreSpecification) IsSatisfiedBy(ctx context.Context, entity *Transaction) bool {
	if entity.Terminal().StoreCode != spec.StoreCode {
		return false
	}
	return spec.PosNo == "" || entity.Terminal().PosNo == spec.PosNo
}

// ByDateRangeSpecification filters by recording time; zero bounds are ignored
type ByDateRangeSpecification struct {
	Start time.Time
	End   time.Time
}

func (spec ByDateRangeSpecification) IsSatisfiedBy(ctx context.Context, entity *Transaction) bool {
	recordedAt := entity.RecordedAt()
	if !spec.Start.IsZero() && recordedAt.Before(spec.Start) {
		return false
	}
	if !spec.End.IsZero() && recordedAt.After(spec.End) {
		return false
	}
	return true
}

func NewByStoreSpecification(storeCode, posNo string) shared.Specification[*Transaction] {
	return ByStoreSpecification{StoreCode: storeCode, PosNo: posNo}
}

func NewByDateRangeSpecification(start, end time.Time) shared.Specification[*Transaction] {
	return ByDateRangeSpecification{Start: start, End: end}
}
