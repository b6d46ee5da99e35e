package postgres

// schema creates the coordination tables. Statements are idempotent so an
// existing database is reopened untouched.
const schema = `
CREATE TABLE IF NOT EXISTS lokasi (
    id_lokasi      TEXT PRIMARY KEY,
    jenis_lokasi   TEXT NOT NULL,
    nama_kabkota   TEXT NOT NULL DEFAULT '',
    nama_lokasi    TEXT NOT NULL,
    latitude       DOUBLE PRECISION,
    longitude      DOUBLE PRECISION,
    status_lokasi  TEXT NOT NULL DEFAULT '',
    tingkat_akses  TEXT NOT NULL DEFAULT '',
    kondisi        TEXT NOT NULL DEFAULT '',
    alamat         TEXT NOT NULL DEFAULT '',
    aktif          BOOLEAN NOT NULL DEFAULT TRUE
);

CREATE TABLE IF NOT EXISTS relawan (
    id_relawan    TEXT PRIMARY KEY,
    nama_relawan  TEXT NOT NULL,
    kode_akses    TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS status_bencana (
    id            BIGSERIAL PRIMARY KEY,
    nama_kabkota  TEXT NOT NULL,
    status_bencana TEXT NOT NULL,
    waktu         TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS checkin (
    id            BIGSERIAL PRIMARY KEY,
    id_relawan    TEXT NOT NULL,
    waktu         TIMESTAMPTZ NOT NULL,
    latitude      DOUBLE PRECISION NOT NULL,
    longitude     DOUBLE PRECISION NOT NULL,
    lokasi_text   TEXT NOT NULL DEFAULT '',
    lokasi_posko  TEXT NOT NULL DEFAULT '',
    catatan       TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_checkin_waktu ON checkin(waktu);

CREATE TABLE IF NOT EXISTS asesmen_kesehatan (
    id          BIGSERIAL PRIMARY KEY,
    kode_posko  TEXT NOT NULL DEFAULT '',
    id_relawan  TEXT NOT NULL,
    jawaban     JSONB NOT NULL,
    skor        DOUBLE PRECISION NOT NULL,
    status      TEXT NOT NULL,
    latitude    DOUBLE PRECISION,
    longitude   DOUBLE PRECISION,
    radius_m    DOUBLE PRECISION,
    catatan     TEXT NOT NULL DEFAULT '',
    aktif       BOOLEAN NOT NULL DEFAULT TRUE,
    waktu       TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_asesmen_kesehatan_waktu ON asesmen_kesehatan(waktu);

CREATE TABLE IF NOT EXISTS asesmen_pendidikan (
    id          BIGSERIAL PRIMARY KEY,
    kode_posko  TEXT NOT NULL DEFAULT '',
    id_relawan  TEXT NOT NULL,
    jawaban     JSONB NOT NULL,
    skor        DOUBLE PRECISION NOT NULL,
    status      TEXT NOT NULL,
    latitude    DOUBLE PRECISION,
    longitude   DOUBLE PRECISION,
    radius_m    DOUBLE PRECISION,
    catatan     TEXT NOT NULL DEFAULT '',
    aktif       BOOLEAN NOT NULL DEFAULT TRUE,
    waktu       TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_asesmen_pendidikan_waktu ON asesmen_pendidikan(waktu);

CREATE TABLE IF NOT EXISTS permintaan_logistik (
    id          BIGSERIAL PRIMARY KEY,
    kode_posko  TEXT NOT NULL,
    id_relawan  TEXT NOT NULL,
    keterangan  TEXT NOT NULL DEFAULT '',
    status      TEXT NOT NULL,
    waktu       TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS audit_log (
    id            TEXT PRIMARY KEY,
    id_aktor      TEXT NOT NULL DEFAULT '',
    nama_aktor    TEXT NOT NULL DEFAULT '',
    aksi          TEXT NOT NULL,
    jenis_target  TEXT NOT NULL DEFAULT '',
    tabel_target  TEXT NOT NULL DEFAULT '',
    ref_target    TEXT NOT NULL DEFAULT '',
    catatan       TEXT NOT NULL DEFAULT '',
    payload       JSONB,
    waktu         TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_audit_log_waktu ON audit_log(waktu);
`
