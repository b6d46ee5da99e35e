package intake

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Naminiges/USU-Peduli/internal/domain"
	"github.com/Naminiges/USU-Peduli/internal/observability"
)

type classifierFunc func(ctx context.Context, p domain.Point) string

func (f classifierFunc) Classify(ctx context.Context, p domain.Point) string { return f(ctx, p) }

// karoClassifier runs real point-in-polygon classification against a
// square stand-in for the Karo municipality.
func karoClassifier(calls *int) classifierFunc {
	karo := domain.Region{Name: "Karo", Boundary: []domain.Ring{{
		{Lat: 3.0, Lon: 98.4}, {Lat: 3.0, Lon: 98.6}, {Lat: 3.2, Lon: 98.6}, {Lat: 3.2, Lon: 98.4},
	}}}
	return func(_ context.Context, p domain.Point) string {
		if calls != nil {
			*calls++
		}
		return domain.ClassifyPoint([]domain.Region{karo}, p)
	}
}

type mockDirectory struct {
	facilities  []domain.Facility
	checkIns    []domain.CheckIn
	assessments []domain.Assessment
	requests    []domain.LogisticsRequest
	insertErr   error
	nextID      int64
}

func (m *mockDirectory) Facilities(context.Context) []domain.Facility { return m.facilities }

func (m *mockDirectory) InsertCheckIn(_ context.Context, c domain.CheckIn) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	m.checkIns = append(m.checkIns, c)
	return nil
}

func (m *mockDirectory) InsertAssessment(_ context.Context, a domain.Assessment) (int64, error) {
	if m.insertErr != nil {
		return 0, m.insertErr
	}
	m.assessments = append(m.assessments, a)
	return m.nextID, nil
}

func (m *mockDirectory) InsertRequest(_ context.Context, r domain.LogisticsRequest) (int64, error) {
	if m.insertErr != nil {
		return 0, m.insertErr
	}
	m.requests = append(m.requests, r)
	return m.nextID, nil
}

type mockRegistrar struct {
	created []domain.Facility
	err     error
}

func (m *mockRegistrar) CreateFacility(_ context.Context, _ domain.Actor, f domain.Facility) (domain.Facility, error) {
	if m.err != nil {
		return domain.Facility{}, m.err
	}
	f.ID = "D-ME001"
	f.Active = true
	m.created = append(m.created, f)
	return f, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestService(classify RegionClassifier, dir *mockDirectory, reg *mockRegistrar) *Service {
	return NewService(classify, dir, reg, discardLogger(), observability.NewMetricsForTesting())
}

func shelterAt(id string, lat, lon float64) domain.Facility {
	return domain.Facility{ID: id, Type: domain.FacilityShelter, Latitude: &lat, Longitude: &lon, Active: true}
}

func TestSubmitCheckIn(t *testing.T) {
	ctx := context.Background()

	t.Run("classifies the region and matches the closest facility", func(t *testing.T) {
		domain.SetClock(clockwork.NewFakeClockAt(time.Date(2025, 1, 5, 14, 30, 0, 0, time.UTC)))
		defer domain.SetClock(nil)

		// Candidates at roughly 2, 8, and 0.5 km north of the query point.
		dir := &mockDirectory{facilities: []domain.Facility{
			shelterAt("P-KR002", 3.118, 98.49),
			shelterAt("P-KR003", 3.172, 98.49),
			shelterAt("P-KR001", 3.1045, 98.49),
		}}
		svc := newTestService(karoClassifier(nil), dir, nil)

		got, err := svc.SubmitCheckIn(ctx, CheckInRequest{
			VolunteerID: "RLW-001",
			Latitude:    "3.10",
			Longitude:   "98.49",
			Note:        "akses jalan aman",
		})

		require.NoError(t, err)
		assert.Equal(t, "Karo", got.DetectedRegion)
		assert.Equal(t, "P-KR001", got.NearestFacilityID)
		assert.Equal(t, time.Date(2025, 1, 5, 14, 30, 0, 0, time.UTC), got.Timestamp)
		require.Len(t, dir.checkIns, 1)
		assert.Equal(t, got, dir.checkIns[0])
	})

	t.Run("outside every polygon records the sentinel", func(t *testing.T) {
		dir := &mockDirectory{}
		svc := newTestService(karoClassifier(nil), dir, nil)

		got, err := svc.SubmitCheckIn(ctx, CheckInRequest{
			VolunteerID: "RLW-001", Latitude: "5.0", Longitude: "100.0",
		})

		require.NoError(t, err)
		assert.Equal(t, domain.RegionOutside, got.DetectedRegion)
		assert.Empty(t, got.NearestFacilityID)
	})

	t.Run("detection failure does not block the submission", func(t *testing.T) {
		dir := &mockDirectory{}
		svc := newTestService(classifierFunc(func(context.Context, domain.Point) string {
			return domain.RegionDetectionFailed
		}), dir, nil)

		got, err := svc.SubmitCheckIn(ctx, CheckInRequest{
			VolunteerID: "RLW-001", Latitude: "3.10", Longitude: "98.49",
		})

		require.NoError(t, err)
		assert.Equal(t, domain.RegionDetectionFailed, got.DetectedRegion)
		assert.Len(t, dir.checkIns, 1)
	})

	t.Run("malformed coordinates never reach the classifier", func(t *testing.T) {
		calls := 0
		dir := &mockDirectory{}
		svc := newTestService(karoClassifier(&calls), dir, nil)

		_, err := svc.SubmitCheckIn(ctx, CheckInRequest{
			VolunteerID: "RLW-001", Latitude: "tiga koma satu", Longitude: "98.49",
		})

		assert.True(t, domain.IsValidation(err))
		assert.Zero(t, calls)
		assert.Empty(t, dir.checkIns)
	})

	t.Run("missing volunteer id is rejected", func(t *testing.T) {
		svc := newTestService(karoClassifier(nil), &mockDirectory{}, nil)

		_, err := svc.SubmitCheckIn(ctx, CheckInRequest{Latitude: "3.10", Longitude: "98.49"})

		assert.True(t, domain.IsValidation(err))
	})

	t.Run("deactivated facilities are never matched", func(t *testing.T) {
		hidden := shelterAt("P-KR009", 3.1045, 98.49)
		hidden.Active = false
		dir := &mockDirectory{facilities: []domain.Facility{
			hidden,
			shelterAt("P-KR002", 3.118, 98.49),
		}}
		svc := newTestService(karoClassifier(nil), dir, nil)

		got, err := svc.SubmitCheckIn(ctx, CheckInRequest{
			VolunteerID: "RLW-001", Latitude: "3.10", Longitude: "98.49",
		})

		require.NoError(t, err)
		assert.Equal(t, "P-KR002", got.NearestFacilityID)
	})

	t.Run("shelters outrank closer facilities of other types", func(t *testing.T) {
		warehouse := domain.Facility{ID: "G-KR001", Type: domain.FacilityWarehouse, Active: true}
		lat, lon := 3.1045, 98.49
		warehouse.Latitude, warehouse.Longitude = &lat, &lon
		dir := &mockDirectory{facilities: []domain.Facility{
			warehouse,
			shelterAt("P-KR002", 3.118, 98.49),
		}}
		svc := newTestService(karoClassifier(nil), dir, nil)

		got, err := svc.SubmitCheckIn(ctx, CheckInRequest{
			VolunteerID: "RLW-001", Latitude: "3.10", Longitude: "98.49",
		})

		require.NoError(t, err)
		assert.Equal(t, "P-KR002", got.NearestFacilityID)
	})

	t.Run("storage failure surfaces", func(t *testing.T) {
		dir := &mockDirectory{insertErr: errors.New("every store failed")}
		svc := newTestService(karoClassifier(nil), dir, nil)

		_, err := svc.SubmitCheckIn(ctx, CheckInRequest{
			VolunteerID: "RLW-001", Latitude: "3.10", Longitude: "98.49",
		})

		assert.ErrorContains(t, err, "record check-in")
	})
}

func TestSubmitAssessment(t *testing.T) {
	ctx := context.Background()

	t.Run("a perfect health survey scores 100 and Kritis", func(t *testing.T) {
		dir := &mockDirectory{nextID: 7}
		svc := newTestService(karoClassifier(nil), dir, nil)

		got, err := svc.SubmitAssessment(ctx, AssessmentRequest{
			Kind:        "kesehatan",
			VolunteerID: "RLW-001",
			FacilityID:  "P-KR001",
			Latitude:    "3.10",
			Longitude:   "98.49",
			Answers: map[string]string{
				"p1": "5", "p2": "5", "p3": "5", "p4": "5", "p5": "5",
			},
		})

		require.NoError(t, err)
		assert.Equal(t, int64(7), got.ID)
		assert.InDelta(t, 100.0, got.Score, 1e-9)
		assert.Equal(t, domain.TierCritical, got.Tier)
		require.Len(t, dir.assessments, 1)
	})

	t.Run("unparsable answers clamp to the floor", func(t *testing.T) {
		svc := newTestService(karoClassifier(nil), &mockDirectory{}, nil)

		got, err := svc.SubmitAssessment(ctx, AssessmentRequest{
			Kind:        "kesehatan",
			VolunteerID: "RLW-001",
			Latitude:    "3.10",
			Longitude:   "98.49",
			Answers: map[string]string{
				"p1": "banyak", "p2": "", "p3": "x", "p4": "?", "p5": "-",
			},
		})

		require.NoError(t, err)
		assert.InDelta(t, 20.0, got.Score, 1e-9)
		assert.Equal(t, domain.TierSafe, got.Tier)
	})

	t.Run("out-of-range answers clamp to the bounds", func(t *testing.T) {
		svc := newTestService(karoClassifier(nil), &mockDirectory{}, nil)

		got, err := svc.SubmitAssessment(ctx, AssessmentRequest{
			Kind:        "kesehatan",
			VolunteerID: "RLW-001",
			Latitude:    "3.10",
			Longitude:   "98.49",
			Answers: map[string]string{
				"p1": "9", "p2": "0", "p3": "3", "p4": "5", "p5": "5",
			},
		})

		require.NoError(t, err)
		// 5+1+3 weighted 1.0 each, plus 5×1.5 twice = 24 of 30.
		assert.InDelta(t, 80.0, got.Score, 1e-9)
		assert.Equal(t, domain.TierCritical, got.Tier)
	})

	t.Run("answer keys outside the weight table are dropped", func(t *testing.T) {
		dir := &mockDirectory{}
		svc := newTestService(karoClassifier(nil), dir, nil)

		_, err := svc.SubmitAssessment(ctx, AssessmentRequest{
			Kind:        "kesehatan",
			VolunteerID: "RLW-001",
			Latitude:    "3.10",
			Longitude:   "98.49",
			Answers:     map[string]string{"p1": "5", "p99": "5"},
		})

		require.NoError(t, err)
		require.Len(t, dir.assessments, 1)
		assert.NotContains(t, dir.assessments[0].Answers, "p99")
		assert.Equal(t, 5, dir.assessments[0].Answers["p1"])
	})

	t.Run("the education kind uses its own weight table", func(t *testing.T) {
		answers := make(map[string]string, 10)
		for _, key := range []string{"p1", "p2", "p3", "p4", "p5", "p6", "p7", "p8", "p9", "p10"} {
			answers[key] = "5"
		}
		svc := newTestService(karoClassifier(nil), &mockDirectory{}, nil)

		got, err := svc.SubmitAssessment(ctx, AssessmentRequest{
			Kind:        "Pendidikan",
			VolunteerID: "RLW-001",
			Latitude:    "3.10",
			Longitude:   "98.49",
			Answers:     answers,
		})

		require.NoError(t, err)
		assert.InDelta(t, 100.0, got.Score, 1e-9)
		assert.Equal(t, "pendidikan", got.Kind)
	})

	t.Run("unknown kind is rejected", func(t *testing.T) {
		svc := newTestService(karoClassifier(nil), &mockDirectory{}, nil)

		_, err := svc.SubmitAssessment(ctx, AssessmentRequest{
			Kind: "sanitasi", VolunteerID: "RLW-001", Latitude: "3.10", Longitude: "98.49",
		})

		assert.True(t, domain.IsValidation(err))
	})

	t.Run("the confidence radius is optional but must parse", func(t *testing.T) {
		dir := &mockDirectory{}
		svc := newTestService(karoClassifier(nil), dir, nil)

		_, err := svc.SubmitAssessment(ctx, AssessmentRequest{
			Kind: "kesehatan", VolunteerID: "RLW-001",
			Latitude: "3.10", Longitude: "98.49", RadiusM: "dekat",
		})
		assert.True(t, domain.IsValidation(err))

		got, err := svc.SubmitAssessment(ctx, AssessmentRequest{
			Kind: "kesehatan", VolunteerID: "RLW-001",
			Latitude: "3.10", Longitude: "98.49", RadiusM: "250",
		})
		require.NoError(t, err)
		require.NotNil(t, got.RadiusM)
		assert.InDelta(t, 250.0, *got.RadiusM, 1e-9)
	})
}

func TestSubmitLogisticsRequest(t *testing.T) {
	ctx := context.Background()

	t.Run("opens in the Proposed state", func(t *testing.T) {
		domain.SetClock(clockwork.NewFakeClockAt(time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC)))
		defer domain.SetClock(nil)

		dir := &mockDirectory{nextID: 91}
		svc := newTestService(karoClassifier(nil), dir, nil)

		got, err := svc.SubmitLogisticsRequest(ctx, LogisticsRequestInput{
			FacilityID:  "P-KR001",
			RequesterID: "RLW-001",
			Note:        "selimut 200 lembar",
		})

		require.NoError(t, err)
		assert.Equal(t, int64(91), got.ID)
		assert.Equal(t, domain.StatusProposed, got.Status)
		assert.Equal(t, time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC), got.CreatedAt)
	})

	t.Run("requires a target facility and a requester", func(t *testing.T) {
		svc := newTestService(karoClassifier(nil), &mockDirectory{}, nil)

		_, err := svc.SubmitLogisticsRequest(ctx, LogisticsRequestInput{RequesterID: "RLW-001"})
		assert.True(t, domain.IsValidation(err))

		_, err = svc.SubmitLogisticsRequest(ctx, LogisticsRequestInput{FacilityID: "P-KR001"})
		assert.True(t, domain.IsValidation(err))
	})
}

func TestRegisterFacility(t *testing.T) {
	ctx := context.Background()
	actor := domain.Actor{ID: "RLW-001", Name: "Agus"}

	t.Run("classification overrides the submitted region", func(t *testing.T) {
		reg := &mockRegistrar{}
		svc := newTestService(karoClassifier(nil), &mockDirectory{}, reg)

		created, err := svc.RegisterFacility(ctx, actor, FacilityRegistration{
			Type:      domain.FacilityKitchen,
			Name:      "Dapur Umum Kabanjahe",
			Region:    "Deli Serdang",
			Latitude:  "3.10",
			Longitude: "98.49",
		})

		require.NoError(t, err)
		assert.Equal(t, "Karo", created.Region)
		require.Len(t, reg.created, 1)
		require.NotNil(t, reg.created[0].Latitude)
		assert.InDelta(t, 3.10, *reg.created[0].Latitude, 1e-9)
	})

	t.Run("a point outside every polygon keeps the submitted region", func(t *testing.T) {
		reg := &mockRegistrar{}
		svc := newTestService(karoClassifier(nil), &mockDirectory{}, reg)

		created, err := svc.RegisterFacility(ctx, actor, FacilityRegistration{
			Type:      domain.FacilityShelter,
			Name:      "Posko Perbatasan",
			Region:    "Langkat",
			Latitude:  "5.0",
			Longitude: "100.0",
		})

		require.NoError(t, err)
		assert.Equal(t, "Langkat", created.Region)
	})

	t.Run("coordinates are optional but must come together", func(t *testing.T) {
		calls := 0
		reg := &mockRegistrar{}
		svc := newTestService(karoClassifier(&calls), &mockDirectory{}, reg)

		_, err := svc.RegisterFacility(ctx, actor, FacilityRegistration{
			Type: domain.FacilityShelter, Name: "Posko", Latitude: "3.10",
		})
		assert.True(t, domain.IsValidation(err))

		created, err := svc.RegisterFacility(ctx, actor, FacilityRegistration{
			Type: domain.FacilityShelter, Name: "Posko", Region: "Karo",
		})
		require.NoError(t, err)
		assert.Zero(t, calls)
		assert.Nil(t, created.Latitude)
		assert.Equal(t, "Karo", created.Region)
	})

	t.Run("registrar failures surface", func(t *testing.T) {
		reg := &mockRegistrar{err: errors.New("all stores down")}
		svc := newTestService(karoClassifier(nil), &mockDirectory{}, reg)

		_, err := svc.RegisterFacility(ctx, actor, FacilityRegistration{
			Type: domain.FacilityShelter, Name: "Posko", Region: "Karo",
		})

		assert.Error(t, err)
	})
}
