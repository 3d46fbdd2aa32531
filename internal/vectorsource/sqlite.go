package vectorsource

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/hashicorp/go-hclog"
	"github.com/pkg/errors"
	_ "modernc.org/sqlite"

	"github.com/ergomake/layeredit/internal/saveerrors"
	"github.com/ergomake/layeredit/pkg/data"
)

const metaTable = "layeredit_tables"

var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

type sqliteDriver struct {
	db       *sql.DB
	path     string
	table    string
	readOnly bool
}

var _ Driver = &sqliteDriver{}

func OpenSQLite(ctx context.Context, path, table string, readOnly bool) (*sqliteDriver, error) {
	dsn := path
	if readOnly {
		dsn = "file:" + path + "?mode=ro"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Wrapf(err, "fail to open sqlite database %s", path)
	}

	d, err := newSQLiteDriver(db, path, table, readOnly)
	if err != nil {
		db.Close()
		return nil, err
	}

	return d, nil
}

func newSQLiteDriver(db *sql.DB, path, table string, readOnly bool) (*sqliteDriver, error) {
	if !tableNamePattern.MatchString(table) {
		return nil, errors.Errorf("invalid table name %q", table)
	}

	return &sqliteDriver{db: db, path: path, table: table, readOnly: readOnly}, nil
}

func (d *sqliteDriver) Source() string {
	source := fmt.Sprintf("sqlite://%s?table=%s", d.path, d.table)
	if d.readOnly {
		source += "&mode=ro"
	}

	return source
}

// InitTable creates the feature table and registers its schema, then inserts the features of fs.
func (d *sqliteDriver) InitTable(ctx context.Context, fs *data.FeatureSet) error {
	fields, err := json.Marshal(fs.Fields)
	if err != nil {
		return errors.Wrap(err, "fail to encode fields")
	}

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "fail to begin transaction")
	}
	defer tx.Rollback()

	stmts := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (table_name TEXT PRIMARY KEY, geometry_type TEXT NOT NULL, fields TEXT NOT NULL)`, metaTable),
		fmt.Sprintf(`CREATE TABLE %q (fid TEXT PRIMARY KEY, geometry TEXT NOT NULL, attributes TEXT NOT NULL)`, d.table),
	}
	for _, stmt := range stmts {
		_, err = tx.ExecContext(ctx, stmt)
		if err != nil {
			return errors.Wrapf(err, "fail to create table %s", d.table)
		}
	}

	_, err = tx.ExecContext(
		ctx,
		fmt.Sprintf(`INSERT INTO %s (table_name, geometry_type, fields) VALUES (?, ?, ?)`, metaTable),
		d.table, string(fs.GeometryType), string(fields),
	)
	if err != nil {
		return errors.Wrap(err, "fail to register table")
	}

	for _, f := range fs.Features {
		geometry, attributes, err := encodeFeature(f)
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, d.insertSQL(), f.ID, geometry, attributes)
		if err != nil {
			return errors.Wrapf(err, "fail to insert feature %s", f.ID)
		}
	}

	return errors.Wrap(tx.Commit(), "fail to commit transaction")
}

func (d *sqliteDriver) Load(ctx context.Context) (*data.FeatureSet, error) {
	hclog.FromContext(ctx).Debug("Loading sqlite table", "path", d.path, "table", d.table)

	var geometryType, rawFields string
	err := d.db.QueryRowContext(
		ctx,
		fmt.Sprintf(`SELECT geometry_type, fields FROM %s WHERE table_name = ?`, metaTable),
		d.table,
	).Scan(&geometryType, &rawFields)
	if err != nil {
		return nil, errors.Wrapf(err, "fail to read schema of table %s", d.table)
	}

	fs := data.NewFeatureSet(data.GeometryType(geometryType))
	err = json.Unmarshal([]byte(rawFields), &fs.Fields)
	if err != nil {
		return nil, errors.Wrapf(err, "fail to decode fields of table %s", d.table)
	}

	rows, err := d.db.QueryContext(ctx, fmt.Sprintf(`SELECT fid, geometry, attributes FROM %q ORDER BY rowid`, d.table))
	if err != nil {
		return nil, errors.Wrapf(err, "fail to query table %s", d.table)
	}
	defer rows.Close()

	for rows.Next() {
		var id, geometry, attributes string
		err := rows.Scan(&id, &geometry, &attributes)
		if err != nil {
			return nil, errors.Wrap(err, "fail to scan feature")
		}

		f := &data.Feature{ID: id}
		err = json.Unmarshal([]byte(geometry), &f.Geometry)
		if err != nil {
			return nil, errors.Wrapf(err, "fail to decode geometry of feature %s", id)
		}

		err = json.Unmarshal([]byte(attributes), &f.Attributes)
		if err != nil {
			return nil, errors.Wrapf(err, "fail to decode attributes of feature %s", id)
		}

		fs.Features = append(fs.Features, f)
	}

	return fs, errors.Wrap(rows.Err(), "fail to iterate features")
}

func (d *sqliteDriver) Writable(ctx context.Context) error {
	if d.readOnly {
		return errors.Wrapf(ErrReadOnly, "%s opened with mode=ro", d.path)
	}

	err := d.db.PingContext(ctx)
	if err != nil {
		return errors.Wrapf(err, "fail to reach %s", d.path)
	}

	return nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Apply runs the whole batch in one transaction. Each change gets its own savepoint so a rejected
// feature is rolled back alone. Cancellation rolls back everything and reports nothing saved.
func (d *sqliteDriver) Apply(ctx context.Context, changes []data.Change) (ApplyResult, error) {
	result := ApplyResult{Errors: []saveerrors.FeatureError{}}
	if d.readOnly {
		return result, errors.Wrapf(ErrReadOnly, "%s opened with mode=ro", d.path)
	}

	if err := ctx.Err(); err != nil {
		return result, err
	}

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return result, errors.Wrap(err, "fail to begin transaction")
	}
	defer tx.Rollback()

	cancelled := func(err error) (ApplyResult, error) {
		return ApplyResult{Errors: []saveerrors.FeatureError{}}, err
	}

	logger := hclog.FromContext(ctx)
	for _, c := range changes {
		if err := ctx.Err(); err != nil {
			return cancelled(err)
		}

		if c.Feature == nil {
			result.Errors = append(result.Errors, saveerrors.FeatureError{FeatureIndex: c.Index, Message: "missing feature"})
			continue
		}

		_, err := tx.ExecContext(ctx, "SAVEPOINT feature_change")
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return cancelled(ctxErr)
			}
			return cancelled(errors.Wrap(err, "fail to create savepoint"))
		}

		err = d.apply(ctx, tx, c)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return cancelled(ctxErr)
		}

		if err != nil {
			logger.Warn("Feature rejected by sqlite source", "table", d.table, "feature", c.Feature.ID, "err", err)
			result.Errors = append(result.Errors, saveerrors.FeatureError{
				FeatureIndex: c.Index,
				FeatureID:    c.Feature.ID,
				Message:      err.Error(),
			})

			_, err = tx.ExecContext(ctx, "ROLLBACK TO SAVEPOINT feature_change")
			if err != nil {
				return cancelled(errors.Wrap(err, "fail to roll back rejected change"))
			}
		} else {
			result.Saved++
		}

		_, err = tx.ExecContext(ctx, "RELEASE SAVEPOINT feature_change")
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return cancelled(ctxErr)
			}
			return cancelled(errors.Wrap(err, "fail to release savepoint"))
		}
	}

	if err := ctx.Err(); err != nil {
		return cancelled(err)
	}

	err = tx.Commit()
	if err != nil {
		return cancelled(errors.Wrap(err, "fail to commit transaction"))
	}

	return result, nil
}

func (d *sqliteDriver) apply(ctx context.Context, db execer, c data.Change) error {
	var (
		res sql.Result
		err error
	)

	switch c.Kind {
	case data.ChangeInsert, data.ChangeUpdate:
		geometry, attributes, encErr := encodeFeature(c.Feature)
		if encErr != nil {
			return encErr
		}

		if c.Kind == data.ChangeInsert {
			res, err = db.ExecContext(ctx, d.insertSQL(), c.Feature.ID, geometry, attributes)
		} else {
			res, err = db.ExecContext(
				ctx,
				fmt.Sprintf(`UPDATE %q SET geometry = ?, attributes = ? WHERE fid = ?`, d.table),
				geometry, attributes, c.Feature.ID,
			)
		}
	case data.ChangeDelete:
		res, err = db.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %q WHERE fid = ?`, d.table), c.Feature.ID)
	default:
		return errors.Errorf("unknown change kind %q", c.Kind)
	}

	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if n == 0 {
		return errors.New("feature not found")
	}

	return nil
}

func (d *sqliteDriver) insertSQL() string {
	return fmt.Sprintf(`INSERT INTO %q (fid, geometry, attributes) VALUES (?, ?, ?)`, d.table)
}

func (d *sqliteDriver) Close() error {
	return d.db.Close()
}

func encodeFeature(f *data.Feature) (string, string, error) {
	if !f.Geometry.Finite() {
		return "", "", errors.New("geometry has non finite coordinates")
	}

	geometry, err := json.Marshal(f.Geometry)
	if err != nil {
		return "", "", errors.Wrap(err, "fail to encode geometry")
	}

	attributes := f.Attributes
	if attributes == nil {
		attributes = map[string]string{}
	}

	rawAttributes, err := json.Marshal(attributes)
	if err != nil {
		return "", "", errors.Wrap(err, "fail to encode attributes")
	}

	return string(geometry), string(rawAttributes), nil
}
