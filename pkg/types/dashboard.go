package types

// ProjectSummary is a project card with the figures dashboards show next to it.
type ProjectSummary struct {
	*Project
	CategoryName        string `json:"categoryName,omitempty"`
	FundingPercent      int    `json:"fundingPercent"`
	TaskCount           int    `json:"taskCount"`
	CompletedTasks      int    `json:"completedTasks"`
	PendingApplications int    `json:"pendingApplications"`
}

type TaskCard struct {
	*Task
	ProjectTitle string `json:"projectTitle"`
	Overdue      bool   `json:"overdue"`
}

type ApplicationCard struct {
	*Application
	ProjectTitle  string `json:"projectTitle"`
	VolunteerName string `json:"volunteerName,omitempty"`
}

type ReportCard struct {
	*Report
	TaskTitle     string `json:"taskTitle"`
	ProjectID     string `json:"projectId"`
	VolunteerName string `json:"volunteerName,omitempty"`
}

type DonationCard struct {
	*Donation
	ProjectTitle string `json:"projectTitle"`
}

type VolunteerDashboard struct {
	User           *User              `json:"user"`
	Tasks          []*TaskCard        `json:"tasks"`
	Applications   []*ApplicationCard `json:"applications"`
	Reports        []*ReportCard      `json:"reports"`
	ActiveTasks    int                `json:"activeTasks"`
	CompletedTasks int                `json:"completedTasks"`
}

type CoordinatorDashboard struct {
	User                *User              `json:"user"`
	Projects            []*ProjectSummary  `json:"projects"`
	PendingApplications []*ApplicationCard `json:"pendingApplications"`
	PendingReports      []*ReportCard      `json:"pendingReports"`
	TotalCollectedCents int64              `json:"totalCollectedCents"`
	TotalTargetCents    int64              `json:"totalTargetCents"`
}

type DonorDashboard struct {
	User              *User           `json:"user"`
	Donations         []*DonationCard `json:"donations"`
	TotalDonatedCents int64           `json:"totalDonatedCents"`
	ProjectsSupported int             `json:"projectsSupported"`
}

type AdminDashboard struct {
	Stats           StatsData         `json:"stats"`
	UsersByRole     map[Role]int      `json:"usersByRole"`
	PendingProjects []*Project        `json:"pendingProjects"`
	ContactMessages []*ContactMessage `json:"contactMessages"`
}
