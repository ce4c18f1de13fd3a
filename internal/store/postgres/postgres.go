package postgres

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/shopspring/decimal"

	"repairdesk/internal/domain"
	"repairdesk/internal/store"
)

//go:embed schema.sql
var schemaSQL string

type Store struct {
	db *sql.DB
}

func New(ctx context.Context, databaseURL string) (*Store, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, err
	}

	db.SetMaxIdleConns(4)
	db.SetMaxOpenConns(16)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 6*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// EnsureSchema creates the tables the store needs when they are missing.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

const ticketColumns = `
	id, customer_name, customer_phone, customer_address,
	device_brand, device_model, device_imei, device_color, device_ram, device_rom,
	device_password, device_received_by, device_received_date,
	complaint_type, description, product_rate, service_charge, total, manual_total,
	status, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTicket(row rowScanner) (domain.ServiceTicket, error) {
	var (
		t             domain.ServiceTicket
		address       sql.NullString
		imei          sql.NullString
		color         sql.NullString
		ram           sql.NullString
		rom           sql.NullString
		password      sql.NullString
		receivedBy    sql.NullString
		receivedDate  sql.NullTime
		complaintType string
		productRate   decimal.Decimal
		serviceCharge decimal.Decimal
		total         decimal.Decimal
		manualTotal   decimal.NullDecimal
		status        string
		createdAt     time.Time
		updatedAt     time.Time
	)

	err := row.Scan(
		&t.ID, &t.Customer.Name, &t.Customer.Phone, &address,
		&t.Device.Brand, &t.Device.Model, &imei, &color, &ram, &rom,
		&password, &receivedBy, &receivedDate,
		&complaintType, &t.Problem.Description, &productRate, &serviceCharge, &total, &manualTotal,
		&status, &createdAt, &updatedAt,
	)
	if err != nil {
		return domain.ServiceTicket{}, err
	}

	parsedStatus, err := domain.ParseStatus(status)
	if err != nil {
		return domain.ServiceTicket{}, fmt.Errorf("ticket %s: %w", t.ID, err)
	}

	t.Customer.Address = address.String
	t.Device.IMEI = imei.String
	t.Device.Color = color.String
	t.Device.RAM = ram.String
	t.Device.ROM = rom.String
	t.Device.Password = password.String
	t.Device.ReceivedBy = receivedBy.String
	if receivedDate.Valid {
		d := receivedDate.Time
		t.Device.ReceivedDate = domain.NewCalendarDate(d.Year(), d.Month(), d.Day())
	}
	t.Problem.ComplaintType = domain.ComplaintType(complaintType)
	t.Problem.ProductRate = domain.AmountFromDecimal(productRate)
	t.Problem.ServiceCharge = domain.AmountFromDecimal(serviceCharge)
	t.Total = domain.AmountFromDecimal(total)
	if manualTotal.Valid {
		manual := domain.AmountFromDecimal(manualTotal.Decimal)
		t.ManualTotal = &manual
	}
	t.Status = parsedStatus
	createdAt = createdAt.UTC()
	updatedAt = updatedAt.UTC()
	t.CreatedAt = &createdAt
	t.UpdatedAt = &updatedAt
	return t, nil
}

func (s *Store) ListTickets(ctx context.Context, filter domain.TicketFilter) ([]domain.ServiceTicket, error) {
	query := `SELECT ` + ticketColumns + ` FROM service_tickets`
	args := make([]any, 0, 1)
	if filter.Status != nil {
		query += ` WHERE status = $1`
		args = append(args, filter.Status.String())
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tickets := make([]domain.ServiceTicket, 0, 64)
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tickets, nil
}

func (s *Store) GetTicket(ctx context.Context, id string) (*domain.ServiceTicket, error) {
	t, err := scanTicket(s.db.QueryRowContext(ctx, `SELECT `+ticketColumns+` FROM service_tickets WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (s *Store) CreateTicket(ctx context.Context, ticket domain.ServiceTicket) (*domain.ServiceTicket, error) {
	if err := domain.ValidateTicket(ticket); err != nil {
		return nil, store.ErrInvalidTicket
	}
	if ticket.ID == "" {
		ticket.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if ticket.CreatedAt == nil {
		ticket.CreatedAt = &now
	}
	if ticket.UpdatedAt == nil {
		ticket.UpdatedAt = &now
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO service_tickets (`+ticketColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22)
	`,
		ticket.ID, ticket.Customer.Name, ticket.Customer.Phone, nullIfEmpty(ticket.Customer.Address),
		ticket.Device.Brand, ticket.Device.Model, nullIfEmpty(ticket.Device.IMEI), nullIfEmpty(ticket.Device.Color),
		nullIfEmpty(ticket.Device.RAM), nullIfEmpty(ticket.Device.ROM),
		nullIfEmpty(ticket.Device.Password), nullIfEmpty(ticket.Device.ReceivedBy), nullDate(ticket.Device.ReceivedDate),
		string(ticket.Problem.ComplaintType), ticket.Problem.Description,
		ticket.Problem.ProductRate.Decimal(), ticket.Problem.ServiceCharge.Decimal(), ticket.Total.Decimal(),
		nullAmount(ticket.ManualTotal), ticket.Status.String(), *ticket.CreatedAt, *ticket.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrConflict
		}
		return nil, err
	}

	created := ticket
	return &created, nil
}

// UpdateTicket replaces a ticket inside a transaction so the status
// transition is checked against the row it overwrites.
func (s *Store) UpdateTicket(ctx context.Context, ticket domain.ServiceTicket) (*domain.ServiceTicket, error) {
	if ticket.ID == "" {
		return nil, store.ErrNotFound
	}
	if err := domain.ValidateTicket(ticket); err != nil {
		return nil, store.ErrInvalidTicket
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var rawStatus string
	var createdAt time.Time
	err = tx.QueryRowContext(ctx, `
		SELECT status, created_at FROM service_tickets WHERE id = $1 FOR UPDATE
	`, ticket.ID).Scan(&rawStatus, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	current, err := domain.ParseStatus(rawStatus)
	if err != nil {
		return nil, err
	}
	if !domain.CanTransition(current, ticket.Status) {
		return nil, store.ErrInvalidTransition
	}

	updatedAt := time.Now().UTC()
	if ticket.UpdatedAt != nil {
		updatedAt = *ticket.UpdatedAt
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE service_tickets
		SET customer_name = $2, customer_phone = $3, customer_address = $4,
			device_brand = $5, device_model = $6, device_imei = $7, device_color = $8,
			device_ram = $9, device_rom = $10, device_password = $11, device_received_by = $12,
			device_received_date = $13, complaint_type = $14, description = $15,
			product_rate = $16, service_charge = $17, total = $18, manual_total = $19,
			status = $20, updated_at = $21
		WHERE id = $1
	`,
		ticket.ID, ticket.Customer.Name, ticket.Customer.Phone, nullIfEmpty(ticket.Customer.Address),
		ticket.Device.Brand, ticket.Device.Model, nullIfEmpty(ticket.Device.IMEI), nullIfEmpty(ticket.Device.Color),
		nullIfEmpty(ticket.Device.RAM), nullIfEmpty(ticket.Device.ROM), nullIfEmpty(ticket.Device.Password),
		nullIfEmpty(ticket.Device.ReceivedBy), nullDate(ticket.Device.ReceivedDate),
		string(ticket.Problem.ComplaintType), ticket.Problem.Description,
		ticket.Problem.ProductRate.Decimal(), ticket.Problem.ServiceCharge.Decimal(), ticket.Total.Decimal(),
		nullAmount(ticket.ManualTotal), ticket.Status.String(), updatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	createdAt = createdAt.UTC()
	updated := ticket
	updated.CreatedAt = &createdAt
	updated.UpdatedAt = &updatedAt
	return &updated, nil
}

func (s *Store) CreateUser(ctx context.Context, user domain.StaffAccount) error {
	user.Username = strings.ToLower(strings.TrimSpace(user.Username))
	if user.Username == "" || strings.TrimSpace(user.Password) == "" {
		return store.ErrInvalidUser
	}
	if user.Role == "" {
		user.Role = domain.RoleTechnician
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO staff_users (username, password, role, active, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,now())
	`, user.Username, user.Password, user.Role, user.Active, user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrConflict
		}
		return err
	}
	return nil
}

func (s *Store) ListUsers(ctx context.Context) ([]domain.StaffAccount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT username, password, role, active, created_at
		FROM staff_users
		ORDER BY username ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]domain.StaffAccount, 0, 16)
	for rows.Next() {
		var user domain.StaffAccount
		if err := rows.Scan(&user.Username, &user.Password, &user.Role, &user.Active, &user.CreatedAt); err != nil {
			return nil, err
		}
		user.CreatedAt = user.CreatedAt.UTC()
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *Store) UpdateUserPassword(ctx context.Context, username string, password string) error {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" || strings.TrimSpace(password) == "" {
		return store.ErrInvalidUser
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE staff_users
		SET password = $2, updated_at = now()
		WHERE username = $1
	`, username, password)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

func nullIfEmpty(val string) any {
	if val == "" {
		return nil
	}
	return val
}

func nullDate(val domain.CalendarDate) any {
	if val.IsZero() {
		return nil
	}
	return val.Time()
}

func nullAmount(val *domain.Amount) any {
	if val == nil {
		return nil
	}
	return val.Decimal()
}
