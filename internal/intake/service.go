// Package intake accepts raw field submissions, enriches them with region
// classification and facility matching, and hands them to the data gateway.
// All validation happens here so malformed input never reaches geometry or
// storage.
package intake

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"time"

	"github.com/Naminiges/USU-Peduli/internal/domain"
	"github.com/Naminiges/USU-Peduli/internal/observability"
)

// RegionClassifier resolves a coordinate to a municipality name or one of
// the classification sentinels.
type RegionClassifier interface {
	Classify(ctx context.Context, p domain.Point) string
}

// Directory is the slice of the data gateway the intake path needs.
type Directory interface {
	Facilities(ctx context.Context) []domain.Facility
	InsertCheckIn(ctx context.Context, c domain.CheckIn) error
	InsertAssessment(ctx context.Context, a domain.Assessment) (int64, error)
	InsertRequest(ctx context.Context, r domain.LogisticsRequest) (int64, error)
}

// FacilityRegistrar issues IDs for and stores volunteer-proposed facilities.
type FacilityRegistrar interface {
	CreateFacility(ctx context.Context, actor domain.Actor, f domain.Facility) (domain.Facility, error)
}

// Service wires the submission flows: classify, match, score, persist.
type Service struct {
	regions   RegionClassifier
	directory Directory
	registrar FacilityRegistrar
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// NewService builds the intake service.
func NewService(regions RegionClassifier, directory Directory, registrar FacilityRegistrar, logger *slog.Logger, metrics *observability.Metrics) *Service {
	return &Service{
		regions:   regions,
		directory: directory,
		registrar: registrar,
		logger:    logger,
		metrics:   metrics,
	}
}

// CheckInRequest is a presence report as it arrives from the field, with
// coordinates still in their raw text form.
type CheckInRequest struct {
	VolunteerID string
	Latitude    string
	Longitude   string
	Note        string
}

// SubmitCheckIn validates a presence report, classifies its region,
// matches the nearest shelter-priority facility, and persists the result.
// Region detection failure does not block the submission.
func (s *Service) SubmitCheckIn(ctx context.Context, req CheckInRequest) (domain.CheckIn, error) {
	start := time.Now()
	defer func() {
		s.metrics.SubmissionDuration.WithLabelValues("checkin").Observe(time.Since(start).Seconds())
	}()

	if req.VolunteerID == "" {
		return domain.CheckIn{}, domain.NewValidationError("volunteer_id", "missing value")
	}
	p, err := domain.ParseCoordinates(req.Latitude, req.Longitude)
	if err != nil {
		return domain.CheckIn{}, err
	}

	region := s.regions.Classify(ctx, p)

	var facilityID string
	if nearest := domain.NearestFacility(p, s.activeFacilities(ctx), domain.FacilityShelter); nearest != nil {
		facilityID = nearest.ID
	}

	checkIn := domain.NewCheckIn(req.VolunteerID, p, region, facilityID, req.Note)
	if err := s.directory.InsertCheckIn(ctx, checkIn); err != nil {
		return domain.CheckIn{}, fmt.Errorf("record check-in: %w", err)
	}

	s.logger.Info("check-in recorded",
		"volunteer", checkIn.VolunteerID, "region", region, "facility", facilityID)
	return checkIn, nil
}

// AssessmentRequest is a rapid-assessment survey as it arrives from the
// field. Answers are raw form values keyed by question.
type AssessmentRequest struct {
	Kind        string
	VolunteerID string
	FacilityID  string
	Latitude    string
	Longitude   string
	RadiusM     string
	Answers     map[string]string
	Note        string
}

// SubmitAssessment validates a survey, clamps its answers, scores it, and
// persists the result. Answer keys outside the kind's weight table are
// dropped; questions left unanswered simply contribute nothing.
func (s *Service) SubmitAssessment(ctx context.Context, req AssessmentRequest) (domain.Assessment, error) {
	start := time.Now()
	defer func() {
		s.metrics.SubmissionDuration.WithLabelValues("assessment").Observe(time.Since(start).Seconds())
	}()

	kind, err := domain.KindByName(req.Kind)
	if err != nil {
		return domain.Assessment{}, err
	}
	if req.VolunteerID == "" {
		return domain.Assessment{}, domain.NewValidationError("volunteer_id", "missing value")
	}
	p, err := domain.ParseCoordinates(req.Latitude, req.Longitude)
	if err != nil {
		return domain.Assessment{}, err
	}
	radius, err := parseRadius(req.RadiusM)
	if err != nil {
		return domain.Assessment{}, err
	}

	answers := make(map[string]int, len(req.Answers))
	for key, raw := range req.Answers {
		if _, known := kind.Weights[key]; !known {
			continue
		}
		answers[key] = domain.ClampAnswer(raw)
	}

	assessment := domain.NewAssessment(kind, req.VolunteerID, req.FacilityID, answers, p, radius, req.Note)
	id, err := s.directory.InsertAssessment(ctx, assessment)
	if err != nil {
		return domain.Assessment{}, fmt.Errorf("record %s assessment: %w", kind.Name, err)
	}
	assessment.ID = id

	s.metrics.AssessmentScores.WithLabelValues(kind.Name).Observe(assessment.Score)
	s.logger.Info("assessment recorded",
		"kind", kind.Name, "volunteer", req.VolunteerID,
		"score", assessment.Score, "tier", assessment.Tier)
	return assessment, nil
}

// LogisticsRequestInput asks for supplies to be moved to a facility.
type LogisticsRequestInput struct {
	FacilityID  string
	RequesterID string
	Note        string
}

// SubmitLogisticsRequest opens a logistics request in the Proposed state.
func (s *Service) SubmitLogisticsRequest(ctx context.Context, req LogisticsRequestInput) (domain.LogisticsRequest, error) {
	start := time.Now()
	defer func() {
		s.metrics.SubmissionDuration.WithLabelValues("request").Observe(time.Since(start).Seconds())
	}()

	if req.FacilityID == "" {
		return domain.LogisticsRequest{}, domain.NewValidationError("facility_id", "missing value")
	}
	if req.RequesterID == "" {
		return domain.LogisticsRequest{}, domain.NewValidationError("requester_id", "missing value")
	}

	request := domain.NewLogisticsRequest(req.FacilityID, req.RequesterID, req.Note)
	id, err := s.directory.InsertRequest(ctx, request)
	if err != nil {
		return domain.LogisticsRequest{}, fmt.Errorf("record logistics request: %w", err)
	}
	request.ID = id

	s.logger.Info("logistics request opened",
		"id", id, "facility", req.FacilityID, "requester", req.RequesterID)
	return request, nil
}

// FacilityRegistration is a volunteer-proposed relief point. Coordinates
// are optional but must be supplied together; when present, the classified
// region overrides the submitted one.
type FacilityRegistration struct {
	Type              string
	Name              string
	Region            string
	Latitude          string
	Longitude         string
	OperationalStatus string
	AccessTier        string
	Condition         string
	Address           string
}

// RegisterFacility validates a proposed facility and stores it with a
// generated ID.
func (s *Service) RegisterFacility(ctx context.Context, actor domain.Actor, req FacilityRegistration) (domain.Facility, error) {
	start := time.Now()
	defer func() {
		s.metrics.SubmissionDuration.WithLabelValues("facility").Observe(time.Since(start).Seconds())
	}()

	facility := domain.Facility{
		Type:              req.Type,
		Region:            req.Region,
		Name:              req.Name,
		OperationalStatus: req.OperationalStatus,
		AccessTier:        req.AccessTier,
		Condition:         req.Condition,
		Address:           req.Address,
	}

	hasLat, hasLon := req.Latitude != "", req.Longitude != ""
	if hasLat != hasLon {
		return domain.Facility{}, domain.NewValidationError("coordinates", "latitude and longitude must be supplied together")
	}
	if hasLat {
		p, err := domain.ParseCoordinates(req.Latitude, req.Longitude)
		if err != nil {
			return domain.Facility{}, err
		}
		facility.Latitude = &p.Lat
		facility.Longitude = &p.Lon

		// Sentinels are advisory; keep the submitted region on OUTSIDE or
		// detection failure so a bad snapshot cannot blank the record.
		if region := s.regions.Classify(ctx, p); region != domain.RegionOutside && region != domain.RegionDetectionFailed {
			facility.Region = region
		}
	}

	created, err := s.registrar.CreateFacility(ctx, actor, facility)
	if err != nil {
		return domain.Facility{}, err
	}

	s.logger.Info("facility registered",
		"id", created.ID, "type", created.Type, "region", created.Region)
	return created, nil
}

// activeFacilities filters the directory listing down to candidates a
// check-in may be matched against.
func (s *Service) activeFacilities(ctx context.Context) []domain.Facility {
	all := s.directory.Facilities(ctx)
	active := make([]domain.Facility, 0, len(all))
	for _, f := range all {
		if f.Active {
			active = append(active, f)
		}
	}
	return active
}

func parseRadius(raw string) (*float64, error) {
	if raw == "" {
		return nil, nil
	}
	radius, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(radius) || math.IsInf(radius, 0) || radius < 0 {
		return nil, domain.NewValidationError("radius", fmt.Sprintf("not a usable radius: %q", raw))
	}
	return &radius, nil
}
