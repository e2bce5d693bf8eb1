package main

import (
	"reflect"
	"testing"
)

func TestNotificationMessages(t *testing.T) {
	cases := []struct {
		name string
		got  string
		want string
	}{
		{"project created", projectCreatedMessage("Apollo"), `You created project "Apollo"`},
		{"project invitation", projectInvitationMessage("Apollo"), `You were added to project "Apollo"`},
		{"task assigned", taskAssignedMessage("Write docs"), `You were assigned task "Write docs"`},
		{"task completed", taskCompletedMessage("Write docs"), `Task "Write docs" was marked as completed`},
		{"task comment", taskCommentMessage("Apollo"), `New comment on a task in "Apollo"`},
		{"project comment", projectCommentMessage("Apollo"), `New discussion in "Apollo"`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.got != tc.want {
				t.Errorf("got %q, want %q", tc.got, tc.want)
			}
		})
	}
}

func TestCommentRecipients(t *testing.T) {
	cases := []struct {
		name    string
		members []string
		author  string
		want    []string
	}{
		{"author excluded", []string{"a", "b", "c"}, "a", []string{"b", "c"}},
		{"author mid-list", []string{"a", "b", "c"}, "b", []string{"a", "c"}},
		{"author not a member", []string{"a", "b"}, "x", []string{"a", "b"}},
		{"sole member", []string{"a"}, "a", []string{}},
		{"no members", nil, "a", []string{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := commentRecipients(tc.members, tc.author)
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestValidStatus(t *testing.T) {
	for _, s := range []string{StatusTodo, StatusInProgress, StatusDone} {
		if !validStatus(s) {
			t.Errorf("expected %q to be valid", s)
		}
	}
	for _, s := range []string{"", "Done", "blocked", "in_progress", "todo "} {
		if validStatus(s) {
			t.Errorf("expected %q to be invalid", s)
		}
	}
}
