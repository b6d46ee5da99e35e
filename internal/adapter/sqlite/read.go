package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Naminiges/USU-Peduli/internal/gateway"
)

func (s *Store) FacilityRows(ctx context.Context) ([]gateway.Row, error) {
	const query = `
SELECT kode_lokasi, jenis_lokasi, kabupaten_kota, nama_lokasi, latitude, longitude,
       status_lokasi, tingkat_akses, kondisi, alamat, aktif
FROM lokasi ORDER BY kode_lokasi`
	return s.queryRows(ctx, query)
}

func (s *Store) VolunteerRows(ctx context.Context) ([]gateway.Row, error) {
	// Access codes stay in the table; they are never selected.
	const query = `SELECT id_relawan, nama_relawan FROM relawan ORDER BY id_relawan`
	return s.queryRows(ctx, query)
}

func (s *Store) StatusRows(ctx context.Context) ([]gateway.Row, error) {
	// Oldest first so the newest declaration wins during normalization.
	const query = `SELECT kabupaten_kota, status_bencana FROM status_bencana ORDER BY waktu, id`
	return s.queryRows(ctx, query)
}

func (s *Store) CheckInRows(ctx context.Context, since time.Time) ([]gateway.Row, error) {
	const query = `
SELECT id, id_relawan, waktu, latitude, longitude, lokasi_text, lokasi_posko, catatan
FROM checkin WHERE waktu >= ? ORDER BY waktu, id`
	return s.queryRows(ctx, query, formatTime(since))
}

func (s *Store) AssessmentRows(ctx context.Context, kind string, since time.Time, activeOnly bool) ([]gateway.Row, error) {
	table, err := assessmentTable(kind)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`
SELECT id, kode_posko, id_relawan, jawaban, skor, status, latitude, longitude,
       radius_m, catatan, aktif, waktu
FROM %s WHERE waktu >= ?`, table)
	if activeOnly {
		query += ` AND aktif = 1`
	}
	query += ` ORDER BY waktu, id`
	return s.queryRows(ctx, query, formatTime(since))
}

func (s *Store) RequestRows(ctx context.Context) ([]gateway.Row, error) {
	const query = `
SELECT id, kode_posko, id_relawan, keterangan, status, waktu
FROM permintaan_logistik ORDER BY waktu, id`
	return s.queryRows(ctx, query)
}

func (s *Store) AuditRows(ctx context.Context, limit int) ([]gateway.Row, error) {
	if limit <= 0 {
		limit = 50
	}
	const query = `
SELECT id, id_aktor, nama_aktor, aksi, jenis_target, tabel_target, ref_target,
       catatan, payload, waktu
FROM audit_log ORDER BY waktu DESC, id DESC LIMIT ?`
	return s.queryRows(ctx, query, limit)
}

func (s *Store) FacilityByID(ctx context.Context, id string) (gateway.Row, error) {
	const query = `
SELECT kode_lokasi, jenis_lokasi, kabupaten_kota, nama_lokasi, latitude, longitude,
       status_lokasi, tingkat_akses, kondisi, alamat, aktif
FROM lokasi WHERE kode_lokasi = ?`
	return s.queryRow(ctx, query, id)
}

func (s *Store) RequestByID(ctx context.Context, id int64) (gateway.Row, error) {
	const query = `
SELECT id, kode_posko, id_relawan, keterangan, status, waktu
FROM permintaan_logistik WHERE id = ?`
	return s.queryRow(ctx, query, id)
}

func (s *Store) AssessmentByID(ctx context.Context, kind string, id int64) (gateway.Row, error) {
	table, err := assessmentTable(kind)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`
SELECT id, kode_posko, id_relawan, jawaban, skor, status, latitude, longitude,
       radius_m, catatan, aktif, waktu
FROM %s WHERE id = ?`, table)
	return s.queryRow(ctx, query, id)
}

func (s *Store) MaxFacilityID(ctx context.Context, prefix string) (string, error) {
	const query = `
SELECT kode_lokasi FROM lokasi WHERE kode_lokasi LIKE ? || '%'
ORDER BY kode_lokasi DESC LIMIT 1`

	var id string
	err := s.db.GetContext(ctx, &id, query, prefix)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return id, nil
}
