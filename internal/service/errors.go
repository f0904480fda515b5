package service

import "errors"

var (
	// ErrVerificationFailed is returned when an explicit challenge
	// completion finds no accepted submission to corroborate it
	ErrVerificationFailed = errors.New("no accepted submission found for challenge")

	// ErrChallengeNotFound is returned when an operation targets a day with
	// no assigned challenge
	ErrChallengeNotFound = errors.New("challenge not found")

	// ErrNoEligibleProblems is returned when the problem pool has nothing
	// left to assign after exclusions
	ErrNoEligibleProblems = errors.New("no eligible problems to assign")

	// ErrUserNotFound is returned when the referenced user does not exist
	ErrUserNotFound = errors.New("user not found")

	// ErrContestNotFound is returned when the referenced contest does not
	// exist
	ErrContestNotFound = errors.New("contest not found")

	// ErrReminderNotFound is returned when removing a reminder that does not
	// exist or has already fired
	ErrReminderNotFound = errors.New("reminder not found or already fired")
)
