package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProfileIsComplete(t *testing.T) {
	full := Profile{Name: "Ada", Bio: "Compilers", Skills: "go,sql", Goals: "Mentor juniors"}
	assert.True(t, full.IsComplete())

	assert.False(t, Profile{Bio: "b", Skills: "go", Goals: "g"}.IsComplete())
	assert.False(t, Profile{Name: "a", Skills: "go", Goals: "g"}.IsComplete())
	assert.False(t, Profile{Name: "a", Bio: "b", Goals: "g"}.IsComplete())
	assert.False(t, Profile{Name: "a", Bio: "b", Skills: " , "}.IsComplete())
	assert.False(t, Profile{Name: " ", Bio: "b", Skills: "go", Goals: "g"}.IsComplete())
}

func TestSkillListRoundTrip(t *testing.T) {
	p := Profile{Skills: " go , sql ,,grpc "}
	assert.Equal(t, []string{"go", "sql", "grpc"}, p.SkillList())

	assert.Equal(t, "go,sql", JoinSkills([]string{" go", "", "sql "}))
	assert.Equal(t, "", JoinSkills(nil))
}
