package recalc

import (
	"context"
	"errors"
	"testing"

	"tripquote/internal/domain/itinerary"
	"tripquote/internal/domain/pricing"
)

type fakeRecords struct {
	records  map[string]*itinerary.Record
	failSave map[string]bool
	saves    int
}

func (f *fakeRecords) Save(_ context.Context, rec *itinerary.Record) error {
	if f.failSave[rec.ID] {
		return errors.New("write refused")
	}
	f.saves++
	clone := *rec
	clone.Days = itinerary.CopyDays(rec.Days)
	f.records[rec.ID] = &clone
	return nil
}

func (f *fakeRecords) ByID(_ context.Context, id string) (*itinerary.Record, error) {
	rec, ok := f.records[id]
	if !ok {
		return nil, itinerary.ErrRecordNotFound
	}
	return rec, nil
}

func (f *fakeRecords) ByTenant(_ context.Context, tenantID string) ([]*itinerary.Record, error) {
	var out []*itinerary.Record
	for _, rec := range f.records {
		if rec.TenantID == tenantID {
			clone := *rec
			clone.Days = itinerary.CopyDays(rec.Days)
			out = append(out, &clone)
		}
	}
	return out, nil
}

type fakePricing struct {
	cfg   pricing.Config
	slabs pricing.ChildSlabs
}

func (f fakePricing) Config(context.Context, string) (pricing.Config, pricing.ChildSlabs, error) {
	return f.cfg, f.slabs, nil
}
func (f fakePricing) SaveConfig(context.Context, pricing.Config) error { return nil }

func (f fakePricing) ReplaceSlabs(context.Context, string, pricing.ChildSlabs) error { return nil }

func seededRecord(id string, unit float64) *itinerary.Record {
	return &itinerary.Record{
		ID:       id,
		TenantID: "t1",
		Adults:   2,
		Days: []itinerary.Day{{
			DayNumber: 1,
			Location:  "Istanbul",
			Items: []itinerary.LineItem{
				{Type: itinerary.ItemHotel, RefID: "h1", PricePerUnit: unit, Quantity: 1, TotalPrice: 9999},
				{Type: itinerary.ItemTour, RefID: "t1", PricePerUnit: 80, Quantity: 2, TotalPrice: 9999},
			},
		}},
		TotalPrice: 123456,
		Status:     itinerary.StatusConfirmed,
	}
}

func newService(records *fakeRecords) *Service {
	cfg := pricing.DefaultConfig("t1")
	cfg.Currency = "EUR"
	return &Service{Records: records, Pricing: fakePricing{cfg: cfg}}
}

func TestRunCorrectsStoredTotals(t *testing.T) {
	records := &fakeRecords{records: map[string]*itinerary.Record{
		"r1": seededRecord("r1", 100),
	}}
	svc := newService(records)

	report, err := svc.Run(context.Background(), "t1")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if report.Total != 1 || report.Updated != 1 || report.Failed != 0 {
		t.Fatalf("report = %+v", report)
	}

	rec := records.records["r1"]
	if rec.TotalPrice != 360 { // hotel 100*2 travelers + tour 80*2
		t.Errorf("total = %v, want 360", rec.TotalPrice)
	}
	if rec.PricePerPerson != 180 {
		t.Errorf("per person = %v, want 180", rec.PricePerPerson)
	}
	if rec.Days[0].Items[0].TotalPrice != 200 {
		t.Errorf("hotel line = %v, want 200", rec.Days[0].Items[0].TotalPrice)
	}
	if rec.Status != itinerary.StatusConfirmed {
		t.Errorf("status changed to %q", rec.Status)
	}
}

func TestRunIsIdempotent(t *testing.T) {
	records := &fakeRecords{records: map[string]*itinerary.Record{
		"r1": seededRecord("r1", 100),
		"r2": seededRecord("r2", 250),
	}}
	svc := newService(records)

	if _, err := svc.Run(context.Background(), "t1"); err != nil {
		t.Fatalf("first Run() error = %v", err)
	}
	first := map[string]float64{}
	for id, rec := range records.records {
		first[id] = rec.TotalPrice
	}

	if _, err := svc.Run(context.Background(), "t1"); err != nil {
		t.Fatalf("second Run() error = %v", err)
	}
	for id, rec := range records.records {
		if rec.TotalPrice != first[id] {
			t.Errorf("record %s drifted: %v -> %v", id, first[id], rec.TotalPrice)
		}
	}
}

func TestRunIsolatesPerRecordFailures(t *testing.T) {
	broken := seededRecord("bad", 100)
	broken.Days = nil // unparseable legacy structure
	records := &fakeRecords{records: map[string]*itinerary.Record{
		"good":   seededRecord("good", 100),
		"bad":    broken,
		"locked": seededRecord("locked", 100),
	}, failSave: map[string]bool{"locked": true}}
	svc := newService(records)

	report, err := svc.Run(context.Background(), "t1")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if report.Total != 3 || report.Updated != 1 || report.Failed != 2 {
		t.Fatalf("report = %+v", report)
	}

	if got := records.records["good"].TotalPrice; got != 360 {
		t.Errorf("good record total = %v, want 360", got)
	}
	// failed records keep their stored state untouched
	if got := records.records["locked"].TotalPrice; got != 123456 {
		t.Errorf("locked record mutated: %v", got)
	}
}
