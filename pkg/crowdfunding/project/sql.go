package project

import (
	"database/sql"
	"errors"

	"github.com/shopspring/decimal"
)

var (
	// ErrProjectNotFound will be returned by select functions when the requested
	// project was not found
	ErrProjectNotFound = errors.New("project not found")
)

const selectProject = `
SELECT
	p.id,
	p.user_id,
	p.title,
	p.alias,
	p.goal,
	p.funded,
	c.id,
	c.alias
FROM crowdf_projects AS p
LEFT JOIN categories AS c ON
	c.id = p.catid
`

const selectProjectByID = selectProject + `
WHERE
	p.id = ?
`

func scanProject(row *sql.Row) (*Project, error) {
	p := &Project{}
	var catID sql.NullInt64
	var catAlias sql.NullString
	var goal, funded decimal.NullDecimal
	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.Title,
		&p.Alias,
		&goal,
		&funded,
		&catID,
		&catAlias,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return p, ErrProjectNotFound
		}
		return p, err
	}
	p.Goal, p.Funded = goal.Decimal, funded.Decimal
	p.CategoryID, p.CategoryAlias = catID.Int64, catAlias.String
	return p, nil
}

// ProjectByIDDB selects a project by the given project id
//
// If no such project exists, it will return an empty project
func ProjectByIDDB(db *sql.DB, id int64) (*Project, error) {
	row := db.QueryRow(selectProjectByID, id)
	return scanProject(row)
}

// Finder looks up projects in the crowdfunding DB
type Finder struct {
	DB *sql.DB
}

func (f Finder) ProjectByID(id int64) (*Project, error) {
	return ProjectByIDDB(f.DB, id)
}
