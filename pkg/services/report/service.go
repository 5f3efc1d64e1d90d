package report

import (
	"context"
	"time"

	"github.com/de-tools/request-atlas/pkg/models/domain"
	"github.com/rs/zerolog"
)

// Store executes a built report statement.
type Store interface {
	RunReport(ctx context.Context, stmt domain.Statement) ([]domain.ReportRow, error)
}

type Service interface {
	Run(ctx context.Context, req domain.ReportRequest) ([]domain.ReportRow, error)
	Fields() []domain.FieldInfo
}

// Settings controls how defaults are computed.
type Settings struct {
	// Location is the timezone "today" is taken in when computing the default filter.
	Location *time.Location
	// Now defaults to time.Now.
	Now func() time.Time
}

var DefaultFields = []string{
	domain.FieldTypeName.String(),
	domain.FieldCreatedDate.String(),
}

type service struct {
	store    Store
	location *time.Location
	now      func() time.Time
}

func NewService(store Store, settings Settings) Service {
	if settings.Location == nil {
		settings.Location = time.UTC
	}
	if settings.Now == nil {
		settings.Now = time.Now
	}
	return &service{
		store:    store,
		location: settings.Location,
		now:      settings.Now,
	}
}

// WithDefaults fills in omitted fields and filters. The default filter is
// computed from the current time on every call.
func (s *service) WithDefaults(req domain.ReportRequest) domain.ReportRequest {
	if req.Fields == nil {
		req.Fields = append([]string(nil), DefaultFields...)
	}
	if req.Filters == nil {
		req.Filters = []string{DefaultFilter(s.now(), s.location)}
	}
	return req
}

func (s *service) Run(ctx context.Context, req domain.ReportRequest) ([]domain.ReportRow, error) {
	logger := zerolog.Ctx(ctx)

	req = s.WithDefaults(req)
	q, err := BuildQuery(req.Fields, req.Filters)
	if err != nil {
		return nil, err
	}

	logger.Debug().
		Strs("fields", req.Fields).
		Strs("filters", req.Filters).
		Msg("running report")

	stmt, err := q.Statement()
	if err != nil {
		return nil, err
	}
	return s.store.RunReport(ctx, stmt)
}

func (s *service) Fields() []domain.FieldInfo {
	return Fields()
}
