package postgres

import (
	"context"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/docflow/docflow/internal/domain/user"
)

const userColumns = `id, user_id, name, email, password_hash, employee_id, department_id, role_id, reports_to, status, created_at, updated_at, deleted_at`

// UserRepository implements user.Repository.
type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO users
		(user_id, name, email, password_hash, employee_id, department_id, role_id, reports_to, status, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
	`, u.UserID, u.Name, u.Email, u.PasswordHash, u.EmployeeID, u.DepartmentID, u.RoleID, u.ReportsTo, u.Status, u.CreatedAt, u.UpdatedAt)
	return err
}

func (r *UserRepository) Update(ctx context.Context, u *user.User) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE users
		SET name=$1, email=$2, password_hash=$3, employee_id=$4, department_id=$5, role_id=$6, reports_to=$7, status=$8, updated_at=$9, deleted_at=$10
		WHERE user_id=$11
	`, u.Name, u.Email, u.PasswordHash, u.EmployeeID, u.DepartmentID, u.RoleID, u.ReportsTo, u.Status, u.UpdatedAt, u.DeletedAt, u.UserID)
	return err
}

func (r *UserRepository) GetByID(ctx context.Context, userID uuid.UUID) (*user.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE user_id=$1`, userID)
	return scanUser(row)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email=$1 AND deleted_at IS NULL`, email)
	return scanUser(row)
}

func (r *UserRepository) List(ctx context.Context, filter user.Filter, limit, offset int) ([]*user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE deleted_at IS NULL`
	args := []interface{}{}
	idx := 1
	if filter.DepartmentID != nil {
		query += " AND department_id=$" + itoa(idx)
		args = append(args, *filter.DepartmentID)
		idx++
	}
	if filter.RoleID != nil {
		query += " AND role_id=$" + itoa(idx)
		args = append(args, *filter.RoleID)
		idx++
	}
	if filter.Status != nil {
		query += " AND status=$" + itoa(idx)
		args = append(args, *filter.Status)
		idx++
	}
	query += " ORDER BY created_at DESC LIMIT $" + itoa(idx) + " OFFSET $" + itoa(idx+1)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var users []*user.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// FindActiveByRoleInDepartment returns one active user holding the role in
// the department. When several match, the longest-tenured wins.
func (r *UserRepository) FindActiveByRoleInDepartment(ctx context.Context, roleID, departmentID uuid.UUID) (*user.User, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+userColumns+` FROM users
		WHERE role_id=$1 AND department_id=$2 AND status=$3 AND deleted_at IS NULL
		ORDER BY created_at ASC LIMIT 1
	`, roleID, departmentID, user.StatusActive)
	return scanUser(row)
}

// ManagerOf resolves the user's manager through the reports_to link. Nil when
// the user has no manager or the manager is not active.
func (r *UserRepository) ManagerOf(ctx context.Context, userID uuid.UUID) (*user.User, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+prefixColumns("m", userColumns)+`
		FROM users u
		JOIN users m ON m.user_id = u.reports_to
		WHERE u.user_id=$1 AND m.status=$2 AND m.deleted_at IS NULL
	`, userID, user.StatusActive)
	return scanUser(row)
}

func scanUser(row pgx.Row) (*user.User, error) {
	var u user.User
	if err := row.Scan(&u.ID, &u.UserID, &u.Name, &u.Email, &u.PasswordHash, &u.EmployeeID, &u.DepartmentID, &u.RoleID, &u.ReportsTo, &u.Status, &u.CreatedAt, &u.UpdatedAt, &u.DeletedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

// RoleRepository implements user.RoleRepository.
type RoleRepository struct {
	pool *pgxpool.Pool
}

func NewRoleRepository(pool *pgxpool.Pool) *RoleRepository {
	return &RoleRepository{pool: pool}
}

func (r *RoleRepository) GetByID(ctx context.Context, roleID uuid.UUID) (*user.Role, error) {
	row := r.pool.QueryRow(ctx, `SELECT id, role_id, name, slug, created_at FROM roles WHERE role_id=$1`, roleID)
	return scanRole(row)
}

func (r *RoleRepository) GetBySlug(ctx context.Context, slug string) (*user.Role, error) {
	row := r.pool.QueryRow(ctx, `SELECT id, role_id, name, slug, created_at FROM roles WHERE slug=$1`, slug)
	return scanRole(row)
}

func (r *RoleRepository) List(ctx context.Context) ([]*user.Role, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, role_id, name, slug, created_at FROM roles ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var roles []*user.Role
	for rows.Next() {
		role, err := scanRole(rows)
		if err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}

func scanRole(row pgx.Row) (*user.Role, error) {
	var role user.Role
	if err := row.Scan(&role.ID, &role.RoleID, &role.Name, &role.Slug, &role.CreatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &role, nil
}

// DepartmentRepository implements user.DepartmentRepository.
type DepartmentRepository struct {
	pool *pgxpool.Pool
}

func NewDepartmentRepository(pool *pgxpool.Pool) *DepartmentRepository {
	return &DepartmentRepository{pool: pool}
}

func (r *DepartmentRepository) GetByID(ctx context.Context, departmentID uuid.UUID) (*user.Department, error) {
	row := r.pool.QueryRow(ctx, `SELECT id, department_id, name, slug, created_at FROM departments WHERE department_id=$1`, departmentID)
	var d user.Department
	if err := row.Scan(&d.ID, &d.DepartmentID, &d.Name, &d.Slug, &d.CreatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &d, nil
}

func (r *DepartmentRepository) List(ctx context.Context) ([]*user.Department, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, department_id, name, slug, created_at FROM departments ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var departments []*user.Department
	for rows.Next() {
		var d user.Department
		if err := rows.Scan(&d.ID, &d.DepartmentID, &d.Name, &d.Slug, &d.CreatedAt); err != nil {
			return nil, err
		}
		departments = append(departments, &d)
	}
	return departments, rows.Err()
}

func itoa(i int) string {
	return strconv.Itoa(i)
}

// prefixColumns qualifies each column in a comma-separated list with a table
// alias for use in joins.
func prefixColumns(alias, columns string) string {
	parts := strings.Split(columns, ", ")
	for i, p := range parts {
		parts[i] = alias + "." + p
	}
	return strings.Join(parts, ", ")
}
