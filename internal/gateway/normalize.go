package gateway

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/Naminiges/USU-Peduli/internal/domain"
)

// Column aliases across the historical schemas. The SQLite store keeps the
// spreadsheet-era names (kode_lokasi, kabupaten_kota); Postgres uses the
// newer ones (id_lokasi, nama_kabkota).
var (
	facilityIDKeys   = []string{"kode_lokasi", "id_lokasi", "kode", "id"}
	regionKeys       = []string{"kabupaten_kota", "nama_kabkota", "kabkota"}
	statusKeys       = []string{"status_bencana", "status"}
	volunteerIDKeys  = []string{"id_relawan", "id"}
	volunteerNameKey = []string{"nama_relawan", "nama"}
)

// NormalizeFacility maps a store row onto the canonical facility record.
func NormalizeFacility(row Row) domain.Facility {
	f := domain.Facility{
		ID:                firstString(row, facilityIDKeys...),
		Type:              asString(row["jenis_lokasi"]),
		Region:            firstString(row, regionKeys...),
		Name:              asString(row["nama_lokasi"]),
		OperationalStatus: asString(row["status_lokasi"]),
		AccessTier:        asString(row["tingkat_akses"]),
		Condition:         asString(row["kondisi"]),
		Address:           asString(row["alamat"]),
		Active:            asBool(row["aktif"], true),
	}
	if lat, ok := asFloat(row["latitude"]); ok {
		f.Latitude = &lat
	}
	if lon, ok := asFloat(row["longitude"]); ok {
		f.Longitude = &lon
	}
	return f
}

// NormalizeVolunteer maps a roster row onto the canonical volunteer record.
// Access codes present in the row are deliberately not carried over.
func NormalizeVolunteer(row Row) domain.Volunteer {
	return domain.Volunteer{
		ID:   firstString(row, volunteerIDKeys...),
		Name: firstString(row, volunteerNameKey...),
	}
}

// NormalizeStatusRows folds declared-status rows into a map keyed by the
// upper-cased, trimmed region name. Later rows win, so stores must order
// duplicates oldest first.
func NormalizeStatusRows(rows []Row) map[string]string {
	statuses := make(map[string]string, len(rows))
	for _, row := range rows {
		region := strings.ToUpper(firstString(row, regionKeys...))
		if region == "" {
			continue
		}
		statuses[region] = firstString(row, statusKeys...)
	}
	return statuses
}

// NormalizeCheckIn maps a presence-report row onto the canonical record.
func NormalizeCheckIn(row Row) domain.CheckIn {
	c := domain.CheckIn{
		VolunteerID:       firstString(row, volunteerIDKeys...),
		DetectedRegion:    asString(row["lokasi_text"]),
		NearestFacilityID: asString(row["lokasi_posko"]),
		Note:              asString(row["catatan"]),
	}
	if ts, ok := asTime(row["waktu"]); ok {
		c.Timestamp = ts
	}
	if lat, ok := asFloat(row["latitude"]); ok {
		c.Latitude = lat
	}
	if lon, ok := asFloat(row["longitude"]); ok {
		c.Longitude = lon
	}
	return c
}

// NormalizeAssessment maps a survey row onto the canonical record.
func NormalizeAssessment(kind string, row Row) domain.Assessment {
	a := domain.Assessment{
		Kind:        kind,
		FacilityID:  asString(row["kode_posko"]),
		VolunteerID: firstString(row, volunteerIDKeys...),
		Answers:     asAnswers(row["jawaban"]),
		Tier:        asString(row["status"]),
		Note:        asString(row["catatan"]),
		Active:      asBool(row["aktif"], true),
	}
	if id, ok := asInt(row["id"]); ok {
		a.ID = id
	}
	if score, ok := asFloat(row["skor"]); ok {
		a.Score = score
	}
	if lat, ok := asFloat(row["latitude"]); ok {
		a.Latitude = lat
	}
	if lon, ok := asFloat(row["longitude"]); ok {
		a.Longitude = lon
	}
	if radius, ok := asFloat(row["radius_m"]); ok {
		a.RadiusM = &radius
	}
	if ts, ok := asTime(row["waktu"]); ok {
		a.CreatedAt = ts
	}
	return a
}

// NormalizeRequest maps a logistics-request row onto the canonical record.
func NormalizeRequest(row Row) domain.LogisticsRequest {
	r := domain.LogisticsRequest{
		FacilityID:  asString(row["kode_posko"]),
		RequesterID: firstString(row, volunteerIDKeys...),
		Note:        asString(row["keterangan"]),
		Status:      asString(row["status"]),
	}
	if id, ok := asInt(row["id"]); ok {
		r.ID = id
	}
	if ts, ok := asTime(row["waktu"]); ok {
		r.CreatedAt = ts
	}
	return r
}

// NormalizeAuditEntry maps an audit-log row onto the canonical record.
func NormalizeAuditEntry(row Row) domain.AuditEntry {
	e := domain.AuditEntry{
		ID:          asString(row["id"]),
		ActorID:     asString(row["id_aktor"]),
		ActorName:   asString(row["nama_aktor"]),
		Action:      asString(row["aksi"]),
		TargetKind:  asString(row["jenis_target"]),
		TargetTable: asString(row["tabel_target"]),
		TargetRef:   asString(row["ref_target"]),
		Note:        asString(row["catatan"]),
	}
	if raw := asString(row["payload"]); raw != "" {
		_ = json.Unmarshal([]byte(raw), &e.Payload)
	}
	if ts, ok := asTime(row["waktu"]); ok {
		e.Timestamp = ts
	}
	return e
}

// firstString returns the first non-empty string value among keys.
func firstString(row Row, keys ...string) string {
	for _, key := range keys {
		if s := asString(row[key]); s != "" {
			return s
		}
	}
	return ""
}

// asString coerces driver values to a trimmed string. Postgres hands text
// columns back as []byte through MapScan; numeric IDs in legacy sheets come
// back as numbers.
func asString(v any) string {
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s)
	case []byte:
		return strings.TrimSpace(string(s))
	case int64:
		return strconv.FormatInt(s, 10)
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(s)
	default:
		return ""
	}
}

// asFloat coerces driver values to a float64, reporting success.
func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	case string, []byte:
		f, err := strconv.ParseFloat(asString(v), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// asInt coerces driver values to an int64, reporting success.
func asInt(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case float64:
		return int64(n), true
	case string, []byte:
		i, err := strconv.ParseInt(asString(v), 10, 64)
		return i, err == nil
	default:
		return 0, false
	}
}

// asBool coerces driver values to a bool, falling back to def when the
// column is missing or unreadable. Legacy rows predate the aktif column.
func asBool(v any, def bool) bool {
	switch b := v.(type) {
	case bool:
		return b
	case int64:
		return b != 0
	case float64:
		return b != 0
	case string, []byte:
		switch strings.ToLower(asString(v)) {
		case "true", "t", "1", "ya":
			return true
		case "false", "f", "0", "tidak":
			return false
		}
	}
	return def
}

// asTime coerces driver values to a time.Time, reporting success. SQLite
// stores timestamps as RFC 3339 text; an older space-separated layout still
// appears in migrated rows.
func asTime(v any) (time.Time, bool) {
	switch ts := v.(type) {
	case time.Time:
		return ts, true
	case string, []byte:
		raw := asString(v)
		for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05"} {
			if t, err := time.Parse(layout, raw); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

// asAnswers decodes the stored answer map. Both stores persist answers as
// a JSON object of question key to integer.
func asAnswers(v any) map[string]int {
	raw := asString(v)
	if raw == "" {
		return nil
	}
	var answers map[string]int
	if err := json.Unmarshal([]byte(raw), &answers); err != nil {
		return nil
	}
	return answers
}
