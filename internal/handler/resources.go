package handler

import (
	"github.com/tutofast/tutofast-api/internal/models"
)

// ScheduleResource is one day of a session's week on the wire, hours
// flattened to plain strings.
type ScheduleResource struct {
	ID             int64    `json:"id"`
	DayOfWeek      int      `json:"dayOfWeek"`
	AvailableHours []string `json:"availableHours"`
}

// TutoringResource is the wire representation of a tutoring session.
type TutoringResource struct {
	ID                int64              `json:"id"`
	Title             string             `json:"title"`
	Description       string             `json:"description"`
	Price             float64            `json:"price"`
	Times             []ScheduleResource `json:"times"`
	Image             string             `json:"image"`
	WhatTheyWillLearn string             `json:"whatTheyWillLearn"`
	TutorID           int64              `json:"tutorId"`
	CourseID          int64              `json:"courseId"`
}

// CourseResource is the wire representation of a catalog course.
type CourseResource struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Cycle       int    `json:"cycle"`
	SemesterID  int64  `json:"semesterId"`
}

// UserResource is the wire representation of an account. The password
// never leaves the service layer.
type UserResource struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatarUrl"`
	Gender    string `json:"gender"`
	Semester  int    `json:"semester"`
	RoleType  string `json:"roleType"`
	TutorID   *int64 `json:"tutorId"`
}

func tutoringResourceFromEntity(session *models.TutoringSession) TutoringResource {
	times := make([]ScheduleResource, 0, len(session.Times))
	for i := range session.Times {
		day := &session.Times[i]
		times = append(times, ScheduleResource{
			ID:             day.ID,
			DayOfWeek:      day.DayOfWeek,
			AvailableHours: day.HourStrings(),
		})
	}
	return TutoringResource{
		ID:                session.ID,
		Title:             session.Title,
		Description:       session.Description,
		Price:             session.Price,
		Times:             times,
		Image:             session.Image,
		WhatTheyWillLearn: session.WhatTheyWillLearn,
		TutorID:           session.TutorID,
		CourseID:          session.CourseID,
	}
}

func tutoringResourcesFromEntities(sessions []models.TutoringSession) []TutoringResource {
	resources := make([]TutoringResource, 0, len(sessions))
	for i := range sessions {
		resources = append(resources, tutoringResourceFromEntity(&sessions[i]))
	}
	return resources
}

func courseResourceFromEntity(course *models.Course) CourseResource {
	return CourseResource{
		ID:          course.ID,
		Name:        course.Name,
		Description: course.Description,
		Cycle:       course.Cycle,
		SemesterID:  course.SemesterID,
	}
}

func courseResourcesFromEntities(courses []models.Course) []CourseResource {
	resources := make([]CourseResource, 0, len(courses))
	for i := range courses {
		resources = append(resources, courseResourceFromEntity(&courses[i]))
	}
	return resources
}

func userResourceFromEntity(user *models.User) UserResource {
	return UserResource{
		ID:        user.ID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
		AvatarURL: user.AvatarURL,
		Gender:    user.Gender,
		Semester:  user.Semester,
		RoleType:  string(user.Role),
		TutorID:   user.TutorID,
	}
}

func userResourcesFromEntities(users []models.User) []UserResource {
	resources := make([]UserResource, 0, len(users))
	for i := range users {
		resources = append(resources, userResourceFromEntity(&users[i]))
	}
	return resources
}
