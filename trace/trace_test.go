package trace

import (
	"testing"

	"github.com/canonkit/authzkernel/mask"
	"github.com/canonkit/authzkernel/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisabledChannelsRecordNothing(t *testing.T) {
	r := New(0)
	r.GroupWalk(SideResource, "doc1", 0, mask.All)
	r.PermissionHit("doc1", "u1", 0, storage.Record{SubjectID: "u1"}, mask.All)
	r.Infof("should not appear")

	report := r.Report(mask.Read)
	assert.Empty(t, report.ResourceWalk)
	assert.Empty(t, report.PermissionHits)
	assert.Empty(t, report.Info)
	assert.Equal(t, mask.Read, report.FinalMask)
}

func TestNilRecorderIsSafe(t *testing.T) {
	var r *Recorder
	r.GroupWalk(SideSubject, "g1", 1, mask.All)
	r.PermissionHit("doc1", "g1", 1, storage.Record{}, mask.All)
	r.Infof("noop")
	r.MarkTruncated()

	report := r.Report(mask.Read)
	assert.Equal(t, mask.Read, report.FinalMask)
	assert.False(t, report.Truncated)
}

func TestChannelsRecordIndependently(t *testing.T) {
	r := New(GroupWalk | Info)
	r.GroupWalk(SideResource, "doc1", 0, mask.All)
	r.PermissionHit("doc1", "u1", 0, storage.Record{SubjectID: "u1"}, mask.All)
	r.Infof("corrupted record skipped: %s", "rec-1")

	report := r.Report(mask.Read)
	assert.Len(t, report.ResourceWalk, 1)
	assert.Empty(t, report.PermissionHits, "PermissionMatch channel was not enabled")
	require.Len(t, report.Info, 1)
	assert.Equal(t, "corrupted record skipped: rec-1", report.Info[0].Note)
}

func TestMarkTruncatedSetsFlagAndNote(t *testing.T) {
	r := New(All)
	r.MarkTruncated()
	report := r.Report(0)
	assert.True(t, report.Truncated)
	require.Len(t, report.Info, 1)
}

func TestReportJSONRoundTrips(t *testing.T) {
	r := New(All)
	r.GroupWalk(SideResource, "doc1", 0, mask.All)
	report := r.Report(mask.Read)

	data, err := report.JSON()
	require.NoError(t, err)
	assert.Contains(t, string(data), "resource-walk")
	assert.Contains(t, string(data), "final-mask")
}
