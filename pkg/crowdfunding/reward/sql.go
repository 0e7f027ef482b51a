package reward

import (
	"database/sql"
	"errors"
)

var (
	// ErrRewardNotFound is returned when the requested reward does not exist
	ErrRewardNotFound = errors.New("reward not found")
)

const selectReward = `
SELECT
	id,
	project_id,
	title,
	amount,
	number,
	distributed,
	published
FROM crowdf_rewards
`

const selectRewardByIDAndProjectID = selectReward + `
WHERE
	id = ?
	AND
	project_id = ?
`

const selectPublishedRewardCount = `
SELECT COUNT(*) FROM crowdf_rewards
WHERE
	id = ?
	AND
	published = 1
`

// RewardByIDDB selects the reward with the given id of the given project
func RewardByIDDB(db *sql.DB, id, projectID int64) (*Reward, error) {
	row := db.QueryRow(selectRewardByIDAndProjectID, id, projectID)
	r := &Reward{}
	err := row.Scan(
		&r.ID,
		&r.ProjectID,
		&r.Title,
		&r.Amount,
		&r.Number,
		&r.Distributed,
		&r.Published,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrRewardNotFound
		}
		return nil, err
	}
	return r, nil
}

// IsPublishedRewardDB returns true if the reward exists and is published
func IsPublishedRewardDB(db *sql.DB, id int64) (bool, error) {
	var n int
	err := db.QueryRow(selectPublishedRewardCount, id).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Finder looks up rewards in the crowdfunding DB
type Finder struct {
	DB *sql.DB
}

func (f Finder) RewardByID(id, projectID int64) (*Reward, error) {
	return RewardByIDDB(f.DB, id, projectID)
}

func (f Finder) IsPublishedReward(id int64) (bool, error) {
	return IsPublishedRewardDB(f.DB, id)
}
