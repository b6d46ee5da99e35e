// Command satgasctl drives the field-data coordination stores from the
// terminal. Field commands enter submissions the way the form layer would
// (paper forms get keyed in this way during network outages); moderation
// commands apply audited admin actions; operations commands inspect the
// stores and copy legacy rows into the preferred one.
//
// Usage:
//
//	satgasctl check-in -volunteer RLW-007 -lat 3.19512 -lon 98.51344
//	satgasctl assess -kind kesehatan -volunteer RLW-007 -facility P-KR001 \
//	  -lat 3.19512 -lon 98.51344 -a p1=5 -a p2=4 -a p3=3 -a p4=5 -a p5=2
//	satgasctl facility-active -actor-id ADM-001 -actor-name Siti \
//	  -id P-KR003 -active=false -note "duplicate entry"
//	satgasctl request-status -actor-id ADM-001 -actor-name Siti -id 12 -status Shipped
//	satgasctl audit-list -limit 20
//	satgasctl sync -dry-run
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"

	kafkaadapter "github.com/Naminiges/USU-Peduli/internal/adapter/kafka"
	"github.com/Naminiges/USU-Peduli/internal/adapter/postgres"
	"github.com/Naminiges/USU-Peduli/internal/adapter/sqlite"
	"github.com/Naminiges/USU-Peduli/internal/config"
	"github.com/Naminiges/USU-Peduli/internal/domain"
	"github.com/Naminiges/USU-Peduli/internal/gateway"
	"github.com/Naminiges/USU-Peduli/internal/intake"
	"github.com/Naminiges/USU-Peduli/internal/moderation"
	"github.com/Naminiges/USU-Peduli/internal/observability"
	"github.com/Naminiges/USU-Peduli/internal/regions"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(2)
	}

	_ = godotenv.Load(".env")

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load config: %v\n", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger, os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		os.Exit(1)
	}
}

// app bundles the wired services a subcommand works against.
type app struct {
	gateway *gateway.Gateway
	intake  *intake.Service
	ledger  *moderation.Ledger
	stores  []gateway.Store
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger, command string, args []string) error {
	metrics := observability.NewMetrics()

	stores, closeStores, err := openStores(cfg, logger)
	if err != nil {
		return err
	}
	defer closeStores()

	clk := clockwork.NewRealClock()
	gw := gateway.New(stores, cfg.CacheTTL, clk, logger, metrics)

	var publisher moderation.Publisher
	if cfg.AuditPublishEnabled {
		p := kafkaadapter.NewPublisher(cfg.KafkaBrokers, cfg.KafkaAuditTopic, logger)
		defer func() {
			if err := p.Close(); err != nil {
				logger.Error("kafka publisher close error", "error", err)
			}
		}()
		publisher = p
	}

	// The locator fetches its snapshot lazily, so commands that never
	// classify a coordinate never touch the boundary source.
	var source regions.BoundarySource
	if cfg.RegionURL != "" {
		source = regions.NewHTTPSource(cfg.RegionURL, cfg.RegionHTTPTimeout)
	} else {
		source = regions.NewFileSource(cfg.RegionFile)
	}
	locator := regions.NewLocator(source, cfg.RegionRefreshTTL, cfg.ForceRegionRefresh, clk, logger, metrics)

	ledger := moderation.NewLedger(gw, publisher, logger, metrics)
	a := &app{
		gateway: gw,
		intake:  intake.NewService(locator, gw, ledger, logger, metrics),
		ledger:  ledger,
		stores:  stores,
	}

	switch command {
	case "check-in":
		return a.checkIn(ctx, args)
	case "assess":
		return a.assess(ctx, args)
	case "request-open":
		return a.requestOpen(ctx, args)
	case "facility-register":
		return a.facilityRegister(ctx, args)
	case "facility-create":
		return a.facilityCreate(ctx, args)
	case "facility-active":
		return a.facilityActive(ctx, args)
	case "facility-type":
		return a.facilityType(ctx, args)
	case "assessment-active":
		return a.assessmentActive(ctx, args)
	case "request-status":
		return a.requestStatus(ctx, args)
	case "checkin-list":
		return a.checkInList(ctx, args)
	case "assessment-list":
		return a.assessmentList(ctx, args)
	case "request-list":
		return a.requestList(ctx, args)
	case "status-map":
		return a.statusMap(ctx, args)
	case "audit-list":
		return a.auditList(ctx, args)
	case "sync":
		return a.sync(ctx, args)
	default:
		printUsage()
		return fmt.Errorf("unknown command %q", command)
	}
}

// openStores opens the configured backends in fallback order: Postgres
// first, SQLite second. A backend that fails to open is skipped with a
// warning; only a fully empty chain is fatal.
func openStores(cfg *config.Config, logger *slog.Logger) ([]gateway.Store, func(), error) {
	var stores []gateway.Store
	var closers []func() error

	if cfg.PostgresURL != "" {
		pg, err := postgres.Open(cfg.PostgresURL)
		if err != nil {
			logger.Warn("postgres unavailable, continuing without it", "error", err)
		} else {
			stores = append(stores, pg)
			closers = append(closers, pg.Close)
		}
	}
	if cfg.SQLitePath != "" {
		sq, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			logger.Warn("sqlite unavailable, continuing without it", "error", err)
		} else {
			stores = append(stores, sq)
			closers = append(closers, sq.Close)
		}
	}

	if len(stores) == 0 {
		return nil, nil, errors.New("every configured store failed to open")
	}

	closeAll := func() {
		for _, close := range closers {
			if err := close(); err != nil {
				logger.Error("store close error", "error", err)
			}
		}
	}
	return stores, closeAll, nil
}

func actorFlags(fs *flag.FlagSet) (id, name *string) {
	id = fs.String("actor-id", "", "administrator ID recorded in the audit trail")
	name = fs.String("actor-name", "", "administrator display name")
	return id, name
}

func requireActor(id, name string) (domain.Actor, error) {
	if id == "" || name == "" {
		return domain.Actor{}, errors.New("-actor-id and -actor-name are required")
	}
	return domain.Actor{ID: id, Name: name}, nil
}

// answerFlags collects repeated -a question=answer pairs.
type answerFlags map[string]string

func (f answerFlags) String() string {
	pairs := make([]string, 0, len(f))
	for k, v := range f {
		pairs = append(pairs, k+"="+v)
	}
	sort.Strings(pairs)
	return strings.Join(pairs, ",")
}

func (f answerFlags) Set(v string) error {
	key, value, ok := strings.Cut(v, "=")
	if !ok {
		return fmt.Errorf("expected question=answer, got %q", v)
	}
	f[strings.TrimSpace(key)] = strings.TrimSpace(value)
	return nil
}

func (a *app) checkIn(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("check-in", flag.ExitOnError)
	volunteer := fs.String("volunteer", "", "volunteer ID")
	lat := fs.String("lat", "", "latitude")
	lon := fs.String("lon", "", "longitude")
	note := fs.String("note", "", "free-form field note")
	if err := fs.Parse(args); err != nil {
		return err
	}

	checkIn, err := a.intake.SubmitCheckIn(ctx, intake.CheckInRequest{
		VolunteerID: *volunteer,
		Latitude:    *lat,
		Longitude:   *lon,
		Note:        *note,
	})
	if err != nil {
		return err
	}

	fmt.Printf("check-in recorded for %s at %s\n", checkIn.VolunteerID, checkIn.Timestamp.Format(time.RFC3339))
	fmt.Printf("  region:           %s\n", checkIn.DetectedRegion)
	if checkIn.NearestFacilityID != "" {
		fmt.Printf("  nearest facility: %s\n", checkIn.NearestFacilityID)
	} else {
		fmt.Println("  nearest facility: none matched")
	}
	return nil
}

func (a *app) assess(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("assess", flag.ExitOnError)
	kind := fs.String("kind", "", "assessment kind: "+strings.Join(sortedKinds(), ", "))
	volunteer := fs.String("volunteer", "", "volunteer ID")
	facility := fs.String("facility", "", "facility the survey covers")
	lat := fs.String("lat", "", "latitude")
	lon := fs.String("lon", "", "longitude")
	radius := fs.String("radius", "", "coverage radius in meters")
	note := fs.String("note", "", "free-form field note")
	answers := answerFlags{}
	fs.Var(answers, "a", "question=answer pair on the 1-5 scale, repeatable (e.g. -a p1=5)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	assessment, err := a.intake.SubmitAssessment(ctx, intake.AssessmentRequest{
		Kind:        *kind,
		VolunteerID: *volunteer,
		FacilityID:  *facility,
		Latitude:    *lat,
		Longitude:   *lon,
		RadiusM:     *radius,
		Answers:     answers,
		Note:        *note,
	})
	if err != nil {
		return err
	}

	fmt.Printf("%s assessment %d recorded: score %.2f (%s)\n",
		assessment.Kind, assessment.ID, assessment.Score, assessment.Tier)
	return nil
}

func (a *app) requestOpen(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("request-open", flag.ExitOnError)
	facility := fs.String("facility", "", "facility the supplies are for")
	requester := fs.String("requester", "", "volunteer or admin opening the request")
	note := fs.String("note", "", "what is needed")
	if err := fs.Parse(args); err != nil {
		return err
	}

	request, err := a.intake.SubmitLogisticsRequest(ctx, intake.LogisticsRequestInput{
		FacilityID:  *facility,
		RequesterID: *requester,
		Note:        *note,
	})
	if err != nil {
		return err
	}

	fmt.Printf("request %d opened for %s (%s)\n", request.ID, request.FacilityID, request.Status)
	return nil
}

// facilityRegister is the volunteer proposal path: the region is detected
// from the coordinates when they are given. Admins entering an already
// verified facility want facility-create instead.
func (a *app) facilityRegister(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("facility-register", flag.ExitOnError)
	actorID, actorName := actorFlags(fs)
	ftype := fs.String("type", "", "facility type: "+strings.Join(facilityTypes(), ", "))
	name := fs.String("name", "", "facility name")
	region := fs.String("region", "", "municipality, used when coordinates are absent or unclassifiable")
	lat := fs.String("lat", "", "latitude (requires -lon)")
	lon := fs.String("lon", "", "longitude (requires -lat)")
	status := fs.String("status", "", "operational status")
	access := fs.String("access", "", "access tier")
	condition := fs.String("condition", "", "site condition")
	address := fs.String("address", "", "street address")
	if err := fs.Parse(args); err != nil {
		return err
	}

	actor, err := requireActor(*actorID, *actorName)
	if err != nil {
		return err
	}

	created, err := a.intake.RegisterFacility(ctx, actor, intake.FacilityRegistration{
		Type:              *ftype,
		Name:              *name,
		Region:            *region,
		Latitude:          *lat,
		Longitude:         *lon,
		OperationalStatus: *status,
		AccessTier:        *access,
		Condition:         *condition,
		Address:           *address,
	})
	if err != nil {
		return err
	}

	fmt.Printf("registered facility %s (%s, %s)\n", created.ID, created.Type, created.Region)
	return nil
}

func (a *app) facilityCreate(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("facility-create", flag.ExitOnError)
	actorID, actorName := actorFlags(fs)
	ftype := fs.String("type", "", "facility type: "+strings.Join(facilityTypes(), ", "))
	name := fs.String("name", "", "facility name")
	region := fs.String("region", "", "municipality the facility serves")
	lat := fs.String("lat", "", "latitude (requires -lon)")
	lon := fs.String("lon", "", "longitude (requires -lat)")
	status := fs.String("status", "", "operational status")
	access := fs.String("access", "", "access tier")
	condition := fs.String("condition", "", "site condition")
	address := fs.String("address", "", "street address")
	if err := fs.Parse(args); err != nil {
		return err
	}

	actor, err := requireActor(*actorID, *actorName)
	if err != nil {
		return err
	}

	f := domain.Facility{
		Type:              *ftype,
		Name:              *name,
		Region:            *region,
		OperationalStatus: *status,
		AccessTier:        *access,
		Condition:         *condition,
		Address:           *address,
	}
	if *lat != "" || *lon != "" {
		if *lat == "" || *lon == "" {
			return errors.New("-lat and -lon must be provided together")
		}
		latV, err := strconv.ParseFloat(*lat, 64)
		if err != nil {
			return fmt.Errorf("invalid -lat: %w", err)
		}
		lonV, err := strconv.ParseFloat(*lon, 64)
		if err != nil {
			return fmt.Errorf("invalid -lon: %w", err)
		}
		f.Latitude, f.Longitude = &latV, &lonV
	}

	created, err := a.ledger.CreateFacility(ctx, actor, f)
	if err != nil {
		return err
	}
	fmt.Printf("created facility %s (%s, %s)\n", created.ID, created.Type, created.Region)
	return nil
}

func (a *app) facilityActive(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("facility-active", flag.ExitOnError)
	actorID, actorName := actorFlags(fs)
	id := fs.String("id", "", "facility ID, e.g. P-KR001")
	active := fs.Bool("active", true, "desired active state")
	note := fs.String("note", "", "reason recorded in the audit trail")
	if err := fs.Parse(args); err != nil {
		return err
	}

	actor, err := requireActor(*actorID, *actorName)
	if err != nil {
		return err
	}
	if *id == "" {
		return errors.New("-id is required")
	}

	if err := a.ledger.SetFacilityActive(ctx, actor, *id, *active, *note); err != nil {
		return err
	}
	fmt.Printf("facility %s active=%t\n", *id, *active)
	return nil
}

func (a *app) facilityType(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("facility-type", flag.ExitOnError)
	actorID, actorName := actorFlags(fs)
	id := fs.String("id", "", "facility ID, e.g. P-KR001")
	ftype := fs.String("type", "", "new facility type: "+strings.Join(facilityTypes(), ", "))
	note := fs.String("note", "", "reason recorded in the audit trail")
	if err := fs.Parse(args); err != nil {
		return err
	}

	actor, err := requireActor(*actorID, *actorName)
	if err != nil {
		return err
	}
	if *id == "" {
		return errors.New("-id is required")
	}

	if err := a.ledger.ReclassifyFacility(ctx, actor, *id, *ftype, *note); err != nil {
		return err
	}
	fmt.Printf("facility %s reclassified as %s\n", *id, *ftype)
	return nil
}

func (a *app) assessmentActive(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("assessment-active", flag.ExitOnError)
	actorID, actorName := actorFlags(fs)
	kind := fs.String("kind", "", "assessment kind: "+strings.Join(sortedKinds(), ", "))
	id := fs.Int64("id", 0, "assessment row ID")
	active := fs.Bool("active", true, "desired active state")
	note := fs.String("note", "", "reason recorded in the audit trail")
	if err := fs.Parse(args); err != nil {
		return err
	}

	actor, err := requireActor(*actorID, *actorName)
	if err != nil {
		return err
	}
	if *id <= 0 {
		return errors.New("-id must be a positive row ID")
	}

	if err := a.ledger.SetAssessmentActive(ctx, actor, *kind, *id, *active, *note); err != nil {
		return err
	}
	fmt.Printf("%s assessment %d active=%t\n", *kind, *id, *active)
	return nil
}

func (a *app) requestStatus(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("request-status", flag.ExitOnError)
	actorID, actorName := actorFlags(fs)
	id := fs.Int64("id", 0, "logistics request ID")
	status := fs.String("status", "", "new status: "+strings.Join(domain.RequestStatuses, ", "))
	note := fs.String("note", "", "reason recorded in the audit trail")
	if err := fs.Parse(args); err != nil {
		return err
	}

	actor, err := requireActor(*actorID, *actorName)
	if err != nil {
		return err
	}
	if *id <= 0 {
		return errors.New("-id must be a positive request ID")
	}

	if err := a.ledger.TransitionRequest(ctx, actor, *id, *status, *note); err != nil {
		return err
	}
	fmt.Printf("request %d -> %s\n", *id, *status)
	return nil
}

// sinceFrom converts a lookback window into the cutoff timestamp; zero
// means the whole history.
func sinceFrom(window time.Duration) time.Time {
	if window <= 0 {
		return time.Time{}
	}
	return time.Now().Add(-window)
}

func (a *app) checkInList(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("checkin-list", flag.ExitOnError)
	window := fs.Duration("since", 24*time.Hour, "lookback window; 0 lists everything")
	if err := fs.Parse(args); err != nil {
		return err
	}

	checkIns := a.gateway.CheckIns(ctx, sinceFrom(*window))
	if len(checkIns) == 0 {
		fmt.Println("no check-ins in the window")
		return nil
	}

	for _, c := range checkIns {
		name := c.VolunteerName
		if name == "" {
			name = c.VolunteerID
		}
		fmt.Printf("%s  %-20s (%.5f, %.5f)  %s  nearest %s\n",
			c.Timestamp.Format(time.RFC3339), name, c.Latitude, c.Longitude,
			c.DetectedRegion, c.NearestFacilityID)
	}
	return nil
}

func (a *app) assessmentList(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("assessment-list", flag.ExitOnError)
	kind := fs.String("kind", "", "assessment kind: "+strings.Join(sortedKinds(), ", "))
	window := fs.Duration("since", 24*time.Hour, "lookback window; 0 lists everything")
	all := fs.Bool("all", false, "include deactivated assessments")
	if err := fs.Parse(args); err != nil {
		return err
	}

	assessments := a.gateway.Assessments(ctx, *kind, sinceFrom(*window), !*all)
	if len(assessments) == 0 {
		fmt.Println("no assessments in the window")
		return nil
	}

	for _, s := range assessments {
		name := s.VolunteerName
		if name == "" {
			name = s.VolunteerID
		}
		fmt.Printf("%s  #%-5d %-20s %s  score %6.2f (%s)\n",
			s.CreatedAt.Format(time.RFC3339), s.ID, name, s.FacilityID, s.Score, s.Tier)
	}
	return nil
}

func (a *app) requestList(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("request-list", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	requests := a.gateway.Requests(ctx)
	if len(requests) == 0 {
		fmt.Println("no logistics requests")
		return nil
	}

	for _, r := range requests {
		fmt.Printf("%s  #%-5d %-10s %s -> %s", r.CreatedAt.Format(time.RFC3339), r.ID, r.Status, r.RequesterID, r.FacilityID)
		if r.Note != "" {
			fmt.Printf("  (%s)", r.Note)
		}
		fmt.Println()
	}
	return nil
}

func (a *app) statusMap(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("status-map", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	statuses := a.gateway.StatusMap(ctx)
	if len(statuses) == 0 {
		fmt.Println("no region statuses declared")
		return nil
	}

	names := make([]string, 0, len(statuses))
	for name := range statuses {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %-24s %s\n", name, statuses[name])
	}
	return nil
}

func (a *app) auditList(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("audit-list", flag.ExitOnError)
	limit := fs.Int("limit", 20, "number of entries, newest first")
	if err := fs.Parse(args); err != nil {
		return err
	}

	entries := a.gateway.AuditEntries(ctx, *limit)
	if len(entries) == 0 {
		fmt.Println("audit trail is empty")
		return nil
	}

	for _, e := range entries {
		fmt.Printf("%s  %-24s %s/%s  by %s (%s)\n",
			e.Timestamp.Format(time.RFC3339), e.Action, e.TargetTable, e.TargetRef, e.ActorName, e.ActorID)
		if e.Note != "" {
			fmt.Printf("%26snote: %s\n", "", e.Note)
		}
	}
	return nil
}

// sync copies rows present in the legacy store but missing from the
// preferred store. Facilities dedupe on their natural ID; field rows
// dedupe on submitter and second-precision timestamp, since row IDs are
// assigned independently per store. The audit trail is not copied.
func (a *app) sync(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("sync", flag.ExitOnError)
	dryRun := fs.Bool("dry-run", false, "report what would be copied without writing")
	sinceRaw := fs.String("since", "", "only copy field rows recorded at or after this RFC 3339 time")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var since time.Time
	if *sinceRaw != "" {
		t, err := time.Parse(time.RFC3339, *sinceRaw)
		if err != nil {
			return fmt.Errorf("invalid -since: %w", err)
		}
		since = t
	}

	if len(a.stores) < 2 {
		return errors.New("sync needs both stores configured (DATABASE_URL and SQLITE_PATH)")
	}
	target, legacy := a.stores[0], a.stores[len(a.stores)-1]

	fmt.Printf("=== Store Sync: %s -> %s ===\n\n", legacy.Name(), target.Name())

	report, err := syncFacilities(ctx, legacy, target, *dryRun)
	if err != nil {
		return fmt.Errorf("sync facilities: %w", err)
	}
	report.print("facilities")

	report, err = syncCheckIns(ctx, legacy, target, since, *dryRun)
	if err != nil {
		return fmt.Errorf("sync check-ins: %w", err)
	}
	report.print("check-ins")

	kinds := sortedKinds()
	for _, kind := range kinds {
		report, err = syncAssessments(ctx, legacy, target, kind, since, *dryRun)
		if err != nil {
			return fmt.Errorf("sync %s assessments: %w", kind, err)
		}
		report.print(kind + " assessments")
	}

	report, err = syncRequests(ctx, legacy, target, *dryRun)
	if err != nil {
		return fmt.Errorf("sync requests: %w", err)
	}
	report.print("logistics requests")

	if *dryRun {
		fmt.Println("\nDry run: nothing written.")
	}
	return nil
}

type syncReport struct {
	copied  int
	present int
}

func (r syncReport) print(entity string) {
	fmt.Printf("  %-24s %d copied, %d already present\n", entity, r.copied, r.present)
}

func syncFacilities(ctx context.Context, legacy, target gateway.Store, dryRun bool) (syncReport, error) {
	var report syncReport

	legacyRows, err := legacy.FacilityRows(ctx)
	if err != nil {
		return report, fmt.Errorf("read %s: %w", legacy.Name(), err)
	}
	targetRows, err := target.FacilityRows(ctx)
	if err != nil {
		return report, fmt.Errorf("read %s: %w", target.Name(), err)
	}

	existing := make(map[string]bool, len(targetRows))
	for _, row := range targetRows {
		existing[gateway.NormalizeFacility(row).ID] = true
	}

	for _, row := range legacyRows {
		f := gateway.NormalizeFacility(row)
		if f.ID == "" || existing[f.ID] {
			report.present++
			continue
		}
		if !dryRun {
			if err := target.InsertFacility(ctx, f); err != nil {
				return report, fmt.Errorf("insert %s: %w", f.ID, err)
			}
		}
		report.copied++
	}
	return report, nil
}

func syncCheckIns(ctx context.Context, legacy, target gateway.Store, since time.Time, dryRun bool) (syncReport, error) {
	var report syncReport

	legacyRows, err := legacy.CheckInRows(ctx, since)
	if err != nil {
		return report, fmt.Errorf("read %s: %w", legacy.Name(), err)
	}
	targetRows, err := target.CheckInRows(ctx, since)
	if err != nil {
		return report, fmt.Errorf("read %s: %w", target.Name(), err)
	}

	key := func(c domain.CheckIn) string {
		return c.VolunteerID + "|" + c.Timestamp.UTC().Truncate(time.Second).Format(time.RFC3339)
	}

	existing := make(map[string]bool, len(targetRows))
	for _, row := range targetRows {
		existing[key(gateway.NormalizeCheckIn(row))] = true
	}

	for _, row := range legacyRows {
		c := gateway.NormalizeCheckIn(row)
		if existing[key(c)] {
			report.present++
			continue
		}
		if !dryRun {
			if err := target.InsertCheckIn(ctx, c); err != nil {
				return report, fmt.Errorf("insert check-in for %s: %w", c.VolunteerID, err)
			}
		}
		report.copied++
	}
	return report, nil
}

func syncAssessments(ctx context.Context, legacy, target gateway.Store, kind string, since time.Time, dryRun bool) (syncReport, error) {
	var report syncReport

	legacyRows, err := legacy.AssessmentRows(ctx, kind, since, false)
	if err != nil {
		return report, fmt.Errorf("read %s: %w", legacy.Name(), err)
	}
	targetRows, err := target.AssessmentRows(ctx, kind, since, false)
	if err != nil {
		return report, fmt.Errorf("read %s: %w", target.Name(), err)
	}

	key := func(a domain.Assessment) string {
		return a.VolunteerID + "|" + a.CreatedAt.UTC().Truncate(time.Second).Format(time.RFC3339)
	}

	existing := make(map[string]bool, len(targetRows))
	for _, row := range targetRows {
		existing[key(gateway.NormalizeAssessment(kind, row))] = true
	}

	for _, row := range legacyRows {
		assessment := gateway.NormalizeAssessment(kind, row)
		if existing[key(assessment)] {
			report.present++
			continue
		}
		if !dryRun {
			if _, err := target.InsertAssessment(ctx, assessment); err != nil {
				return report, fmt.Errorf("insert assessment for %s: %w", assessment.VolunteerID, err)
			}
		}
		report.copied++
	}
	return report, nil
}

func syncRequests(ctx context.Context, legacy, target gateway.Store, dryRun bool) (syncReport, error) {
	var report syncReport

	legacyRows, err := legacy.RequestRows(ctx)
	if err != nil {
		return report, fmt.Errorf("read %s: %w", legacy.Name(), err)
	}
	targetRows, err := target.RequestRows(ctx)
	if err != nil {
		return report, fmt.Errorf("read %s: %w", target.Name(), err)
	}

	key := func(r domain.LogisticsRequest) string {
		return r.FacilityID + "|" + r.RequesterID + "|" + r.CreatedAt.UTC().Truncate(time.Second).Format(time.RFC3339)
	}

	existing := make(map[string]bool, len(targetRows))
	for _, row := range targetRows {
		existing[key(gateway.NormalizeRequest(row))] = true
	}

	for _, row := range legacyRows {
		r := gateway.NormalizeRequest(row)
		if existing[key(r)] {
			report.present++
			continue
		}
		if !dryRun {
			if _, err := target.InsertRequest(ctx, r); err != nil {
				return report, fmt.Errorf("insert request for %s: %w", r.FacilityID, err)
			}
		}
		report.copied++
	}
	return report, nil
}

func facilityTypes() []string {
	types := make([]string, 0, len(domain.FacilityTypePrefixes))
	for t := range domain.FacilityTypePrefixes {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

func sortedKinds() []string {
	kinds := domain.AssessmentKindNames()
	sort.Strings(kinds)
	return kinds
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `satgasctl drives the field-data coordination stores.

Field data:
  check-in           record a volunteer presence report
  assess             score and record a rapid assessment
  request-open       open a logistics request
  facility-register  propose a facility, region detected from coordinates

Moderation (requires -actor-id and -actor-name):
  facility-create    register a verified facility with a generated ID
  facility-active    activate or deactivate a facility
  facility-type      reclassify a facility
  assessment-active  show or hide an assessment
  request-status     advance a logistics request (%s)

Operations:
  checkin-list       list recent check-ins
  assessment-list    list recent assessments of one kind
  request-list       list logistics requests
  status-map         print the declared status per region
  audit-list         print the newest audit entries
  sync               copy legacy rows into the preferred store

Store configuration comes from the environment; a .env file in the working
directory is honored.
`, strings.Join(domain.RequestStatuses, ", "))
}
