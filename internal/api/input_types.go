package api

type credentialsInput struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

type cyclePayload struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

type overlapPayload struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	ExcludeID string `json:"exclude_id"`
}

type diaryPayload struct {
	Date     string   `json:"date"`
	Mood     string   `json:"mood"`
	Symptoms []string `json:"symptoms"`
	Notes    string   `json:"notes"`
}

type onboardingPayload struct {
	DisplayName     string `json:"display_name"`
	CycleLength     int    `json:"cycle_length"`
	PeriodLength    int    `json:"period_length"`
	LastPeriodStart string `json:"last_period_start"`
}

type changePasswordInput struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

type deleteAccountInput struct {
	Password string `json:"password"`
}

type chatPayload struct {
	Message string `json:"message"`
}
