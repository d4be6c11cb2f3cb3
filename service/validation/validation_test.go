package validation

import (
	"context"
	"testing"

	"github.com/beldeveloper/app-promoter/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartRun(t *testing.T) {
	valid := model.FormStartRun{
		Branch:   "feature/login-*",
		Tag:      "v1.2.3",
		Image:    "team/app",
		Registry: "registry.example.com:5000",
	}

	tests := []struct {
		name    string
		mutate  func(f *model.FormStartRun)
		wantErr bool
	}{
		{name: "valid", mutate: func(f *model.FormStartRun) {}},
		{name: "trims spaces", mutate: func(f *model.FormStartRun) { f.Tag = " v1.2.3 " }},
		{name: "no registry", mutate: func(f *model.FormStartRun) { f.Registry = "" }},
		{name: "empty branch", mutate: func(f *model.FormStartRun) { f.Branch = "" }, wantErr: true},
		{name: "branch with spaces", mutate: func(f *model.FormStartRun) { f.Branch = "feat x" }, wantErr: true},
		{name: "empty tag", mutate: func(f *model.FormStartRun) { f.Tag = "" }, wantErr: true},
		{name: "tag with slash", mutate: func(f *model.FormStartRun) { f.Tag = "v1/2" }, wantErr: true},
		{name: "empty image", mutate: func(f *model.FormStartRun) { f.Image = "" }, wantErr: true},
		{name: "image with uppercase", mutate: func(f *model.FormStartRun) { f.Image = "Team/App" }, wantErr: true},
		{name: "registry with semicolon", mutate: func(f *model.FormStartRun) { f.Registry = "reg;rm" }, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := valid
			tt.mutate(&f)
			res, err := NewValidation().StartRun(context.Background(), f)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, model.ErrBadInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "v1.2.3", res.Tag)
		})
	}
}
