package main

import "fmt"

// Notification types. Notifications are derived events: they are written only as
// a side effect of mutations in the project/task/comment stores, never posted by
// a client for arbitrary recipients.
const (
	NotifProjectCreated    = "project_created"
	NotifProjectInvitation = "project_invitation"
	NotifTaskAssigned      = "task_assigned"
	NotifTaskCompleted     = "task_completed"
	NotifTaskComment       = "task_comment"
	NotifProjectComment    = "project_comment"
)

// Subject kinds for notification provenance.
const (
	SubjectProject = "project"
	SubjectTask    = "task"
	SubjectComment = "comment"
)

func projectCreatedMessage(name string) string {
	return fmt.Sprintf("You created project %q", name)
}

func projectInvitationMessage(name string) string {
	return fmt.Sprintf("You were added to project %q", name)
}

func taskAssignedMessage(title string) string {
	return fmt.Sprintf("You were assigned task %q", title)
}

func taskCompletedMessage(title string) string {
	return fmt.Sprintf("Task %q was marked as completed", title)
}

func taskCommentMessage(projectName string) string {
	return fmt.Sprintf("New comment on a task in %q", projectName)
}

func projectCommentMessage(projectName string) string {
	return fmt.Sprintf("New discussion in %q", projectName)
}

// commentRecipients returns the members that should be notified about a comment:
// everyone in the project except the comment's author.
func commentRecipients(memberIDs []string, authorID string) []string {
	out := make([]string, 0, len(memberIDs))
	for _, id := range memberIDs {
		if id != authorID {
			out = append(out, id)
		}
	}
	return out
}
