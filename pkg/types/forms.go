package types

import "time"

type ContactMessage struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"`
	Subject   string    `db:"subject" json:"subject"`
	Message   string    `db:"message" json:"message"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

type StatsData struct {
	TotalRaisedCents  int64 `json:"totalRaisedCents"`
	ProjectsFunded    int   `json:"projectsFunded"`
	ProjectsCompleted int   `json:"projectsCompleted"`
	Volunteers        int   `json:"volunteers"`
	Donations         int   `json:"donations"`
}
