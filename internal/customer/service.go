// Package customer orchestrates the policy workflows: importing a candidate
// record from a PDF, saving and editing records, and listing them grouped by
// expiry.
package customer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/a3tai/policy-tracker/internal/dates"
	"github.com/a3tai/policy-tracker/internal/extract"
	"github.com/a3tai/policy-tracker/internal/lifecycle"
	"github.com/a3tai/policy-tracker/internal/logging"
	"github.com/a3tai/policy-tracker/internal/pdf"
	"github.com/a3tai/policy-tracker/internal/policy"
)

// TextSource turns a document path into text.
type TextSource interface {
	ExtractText(ctx context.Context, path string) (*pdf.TextResult, error)
}

// Repository persists records with canonical dates.
type Repository interface {
	Insert(ctx context.Context, r policy.Record) (uint, error)
	Get(ctx context.Context, id uint) (policy.Stored, error)
	FetchAll(ctx context.Context, filter string) ([]policy.Stored, error)
	Update(ctx context.Context, id uint, r policy.Record) error
	Delete(ctx context.Context, id uint) error
}

// Options wires a Service. Store is required; the rest have defaults.
type Options struct {
	Store      Repository
	Source     TextSource
	Extractor  *extract.Extractor
	Normalizer *dates.Normalizer
	Classifier *lifecycle.Classifier
	Companies  []string
	Now        func() time.Time
	Logger     logging.Logger
}

// Listing is the grouped result of List. Dates are in display form.
type Listing struct {
	Today      string                           `json:"today"`
	WindowDays int                              `json:"window_days"`
	Buckets    lifecycle.Buckets[policy.Stored] `json:"buckets"`
}

// Service is safe for concurrent use as long as its Repository is.
type Service struct {
	store      Repository
	source     TextSource
	extractor  *extract.Extractor
	normalizer *dates.Normalizer
	classifier *lifecycle.Classifier
	companies  []string
	now        func() time.Time
	logger     logging.Logger
}

// ErrNoTextSource is returned by ImportPDF when the service was built
// without a document reader.
var ErrNoTextSource = errors.New("no PDF reader configured")

// NewService creates a Service from opts.
func NewService(opts Options) (*Service, error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("store is required")
	}

	s := &Service{
		store:      opts.Store,
		source:     opts.Source,
		extractor:  opts.Extractor,
		normalizer: opts.Normalizer,
		classifier: opts.Classifier,
		companies:  append([]string(nil), opts.Companies...),
		now:        opts.Now,
		logger:     opts.Logger,
	}

	if s.normalizer == nil {
		s.normalizer = dates.New("tr")
	}
	if s.extractor == nil {
		s.extractor = extract.New(extract.DefaultConfig(), s.normalizer)
	}
	if s.classifier == nil {
		s.classifier = lifecycle.NewClassifier(lifecycle.DefaultWindowDays)
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.logger == nil {
		s.logger = logging.NewNop()
	}
	s.logger = s.logger.Named("customer")

	return s, nil
}

// ImportPDF reads the document at path and returns a candidate record for
// review. Nothing is stored. Read failures come back as
// *pdf.ExtractionInputError and no record is produced.
func (s *Service) ImportPDF(ctx context.Context, path string) (policy.Record, error) {
	if s.source == nil {
		return policy.Record{}, ErrNoTextSource
	}

	result, err := s.source.ExtractText(ctx, path)
	if err != nil {
		return policy.Record{}, err
	}

	rec := s.extractor.Extract(result.Text())
	s.logger.Info("extracted candidate record",
		logging.String("path", result.Path),
		logging.Int("pages", result.PageCount),
		logging.String("insurance_type", rec.InsuranceType))
	return rec, nil
}

// Save validates r and stores it with canonical dates. Dates that cannot be
// read are stored empty.
func (s *Service) Save(ctx context.Context, r policy.Record) (uint, error) {
	prepared, err := s.prepare(r)
	if err != nil {
		return 0, err
	}

	id, err := s.store.Insert(ctx, prepared)
	if err != nil {
		return 0, err
	}

	s.logger.Info("saved customer", logging.Uint("id", id))
	return id, nil
}

// Update replaces every field of the record with the given id.
func (s *Service) Update(ctx context.Context, id uint, r policy.Record) error {
	prepared, err := s.prepare(r)
	if err != nil {
		return err
	}

	if err := s.store.Update(ctx, id, prepared); err != nil {
		return err
	}

	s.logger.Info("updated customer", logging.Uint("id", id))
	return nil
}

// Delete removes the record with the given id.
func (s *Service) Delete(ctx context.Context, id uint) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("deleted customer", logging.Uint("id", id))
	return nil
}

// Get returns one record with display dates.
func (s *Service) Get(ctx context.Context, id uint) (policy.Stored, error) {
	stored, err := s.store.Get(ctx, id)
	if err != nil {
		return policy.Stored{}, err
	}
	stored.Record = stored.MapDates(s.normalizer.ToDisplay)
	return stored, nil
}

// List returns the stored records whose name contains filter, classified
// against today's date. Order within each bucket is insertion order.
func (s *Service) List(ctx context.Context, filter string) (Listing, error) {
	rows, err := s.store.FetchAll(ctx, filter)
	if err != nil {
		return Listing{}, err
	}

	today := s.now()
	buckets := lifecycle.Group(s.classifier, rows, today, func(r policy.Stored) string {
		return r.PolicyEnd
	})

	return Listing{
		Today:      today.Format(dates.DisplayLayout),
		WindowDays: s.classifier.WindowDays(),
		Buckets: lifecycle.Buckets[policy.Stored]{
			Active:       s.display(buckets.Active),
			ExpiringSoon: s.display(buckets.ExpiringSoon),
			Expired:      s.display(buckets.Expired),
		},
	}, nil
}

// Companies returns the suggestion list for the company field.
func (s *Service) Companies() []string {
	return append([]string(nil), s.companies...)
}

// Normalizer returns the date normalizer in use.
func (s *Service) Normalizer() *dates.Normalizer {
	return s.normalizer
}

func (s *Service) prepare(r policy.Record) (policy.Record, error) {
	r = r.Trimmed()
	if err := r.Validate(); err != nil {
		return policy.Record{}, err
	}
	return r.MapDates(s.normalizer.ToCanonical), nil
}

func (s *Service) display(rows []policy.Stored) []policy.Stored {
	out := make([]policy.Stored, len(rows))
	for i, row := range rows {
		row.Record = row.MapDates(s.normalizer.ToDisplay)
		out[i] = row
	}
	return out
}
