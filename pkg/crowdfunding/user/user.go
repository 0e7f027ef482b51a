package user

import (
	"database/sql"
	"errors"
)

var (
	ErrUserNotFound = errors.New("user not found")
)

// User is a registered user of the site
type User struct {
	ID    int64
	Name  string
	Email string
}

const selectUserByID = `
SELECT
	id,
	name,
	email
FROM users
WHERE
	id = ?
`

// UserByIDDB selects the user with the given id
func UserByIDDB(db *sql.DB, id int64) (User, error) {
	u := User{}
	err := db.QueryRow(selectUserByID, id).Scan(&u.ID, &u.Name, &u.Email)
	if err != nil {
		if err == sql.ErrNoRows {
			return u, ErrUserNotFound
		}
		return u, err
	}
	return u, nil
}

// Finder looks up users in the site DB
type Finder struct {
	DB *sql.DB
}

func (f Finder) UserByID(id int64) (User, error) {
	return UserByIDDB(f.DB, id)
}
