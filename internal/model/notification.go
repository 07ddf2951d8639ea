package model

import "time"

type NotificationType string

const (
	NotifyTaskAssigned        NotificationType = "TASK_ASSIGNED"
	NotifyTaskStatusChanged   NotificationType = "TASK_STATUS_CHANGED"
	NotifyDeadlineApproaching NotificationType = "DEADLINE_APPROACHING"
	NotifyProjectInvitation   NotificationType = "PROJECT_INVITATION"
	NotifyTaskComment         NotificationType = "TASK_COMMENT"
)

type Notification struct {
	ID                int                `json:"id"`
	Type              NotificationType   `json:"type"`
	Title             string             `json:"title"`
	Message           string             `json:"message"`
	CreatedAt         time.Time          `json:"createdAt"`
	TaskID            *int               `json:"taskId,omitempty"`
	ProjectID         *int               `json:"projectId,omitempty"`
	UserNotifications []UserNotification `json:"userNotifications,omitempty"`
}

// Read reports whether any per-user delivery record is marked read.
func (n Notification) Read() bool {
	for _, un := range n.UserNotifications {
		if un.IsRead {
			return true
		}
	}
	return false
}

type UserNotification struct {
	ID             int       `json:"id"`
	UserID         int       `json:"userId"`
	NotificationID int       `json:"notificationId"`
	IsRead         bool      `json:"isRead"`
	CreatedAt      time.Time `json:"createdAt"`
}

type NotificationQuery struct {
	Unread bool
	Type   NotificationType
	Page   int
	Limit  int
}

type Comment struct {
	ID        int       `json:"id"`
	Content   string    `json:"content"`
	TaskID    int       `json:"taskId"`
	UserID    int       `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	User      *User     `json:"user,omitempty"`
}
