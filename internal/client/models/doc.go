// Package models holds the data the signup client exchanges with the
// activities API and keeps in memory: activities, the teacher session and
// the status message.
package models
