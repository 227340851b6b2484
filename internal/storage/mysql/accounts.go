package mysql

import (
	"context"
	"database/sql"

	"venue_booking/internal/domain"
)

func queriesFor(role domain.Role) (accountSQL, error) {
	q, ok := accountQueries[role]
	if !ok {
		return accountSQL{}, domain.Errorf(domain.ErrInvalid, "unknown role %q", role)
	}
	return q, nil
}

func (r *Repo) CreateAccount(ctx context.Context, a domain.Account) (domain.Account, error) {
	q, err := queriesFor(a.Role)
	if err != nil {
		return domain.Account{}, err
	}
	res, err := r.db.ExecContext(ctx, q.insert, a.Name, a.Email, a.PasswordHash, valStr(a.Phone), valStr(a.ProfilePic))
	if err != nil {
		return domain.Account{}, mapErr("insert account", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.Account{}, mapErr("insert account", err)
	}
	return r.GetAccountByID(ctx, a.Role, id)
}

func (r *Repo) GetAccountByEmail(ctx context.Context, role domain.Role, email string) (domain.Account, error) {
	q, err := queriesFor(role)
	if err != nil {
		return domain.Account{}, err
	}
	return scanAccount(r.db.QueryRowContext(ctx, q.byEmail, email), role)
}

func (r *Repo) GetAccountByID(ctx context.Context, role domain.Role, id int64) (domain.Account, error) {
	q, err := queriesFor(role)
	if err != nil {
		return domain.Account{}, err
	}
	return scanAccount(r.db.QueryRowContext(ctx, q.byID, id), role)
}

func (r *Repo) UpdateAccount(ctx context.Context, a domain.Account) (domain.Account, error) {
	q, err := queriesFor(a.Role)
	if err != nil {
		return domain.Account{}, err
	}
	if _, err := r.db.ExecContext(ctx, q.update, a.Name, a.Email, a.PasswordHash, valStr(a.Phone), valStr(a.ProfilePic), a.ID); err != nil {
		return domain.Account{}, mapErr("update account", err)
	}
	return r.GetAccountByID(ctx, a.Role, a.ID)
}

func scanAccount(row scanner, role domain.Role) (domain.Account, error) {
	a := domain.Account{Role: role}
	var phone, pic sql.NullString
	if err := row.Scan(&a.ID, &a.Name, &a.Email, &a.PasswordHash, &phone, &pic, &a.CreatedAt); err != nil {
		return domain.Account{}, mapErr("get account", err)
	}
	a.Phone = strPtr(phone)
	a.ProfilePic = strPtr(pic)
	return a, nil
}
