package commands

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"

	jobPostsModel "schooladmin_backend/internals/features/jobposts/model"
)

func TestPrintReport(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	printReport(&buf, jobPostsModel.MigrationReport{
		Rows: []jobPostsModel.MigrationRow{
			{ApplicationID: "a1", Position: "Math Teacher", Outcome: jobPostsModel.Linked, PostID: "p1"},
			{ApplicationID: "a2", Position: "Driver", Outcome: jobPostsModel.Ambiguous, Candidates: 2},
		},
		Linked:    1,
		Ambiguous: 1,
	}, true)

	out := buf.String()
	assert.Contains(t, out, "Math Teacher")
	assert.Contains(t, out, "2 candidates")
	assert.Contains(t, out, "linked 1, ambiguous 1, unmatched 0, already linked 0")
	assert.Contains(t, out, "dry run")
}

func TestCommandTree(t *testing.T) {
	root := New()
	for _, path := range [][]string{{"serve"}, {"admin", "add"}, {"migrate", "job-post-ids"}, {"seed"}} {
		cmd, _, err := root.Find(path)
		assert.NoError(t, err, path)
		assert.Equal(t, path[len(path)-1], cmd.Name())
	}
}
