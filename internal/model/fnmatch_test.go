package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFnmatch(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		pattern string
		want    bool
	}{
		{"exact", "README.md", "README.md", true},
		{"star suffix", "README.md", "README.*", true},
		{"star crosses separators", "/x/README.md", "*/README.*", true},
		{"star matches everything", "/deep/nested/path.go", "*", true},
		{"question mark", "a.go", "?.go", true},
		{"question mark too short", "ab.go", "?.go", false},
		{"class match", "file1.txt", "file[123].txt", true},
		{"class miss", "file4.txt", "file[123].txt", false},
		{"negated class", "fileX.txt", "file[!123].txt", true},
		{"negated class miss", "file1.txt", "file[!123].txt", false},
		{"range class", "b.go", "[a-c].go", true},
		{"unterminated class is literal", "file[1.txt", "file[1.txt", true},
		{"no partial match", "README.md.bak", "README.md", false},
		{"regexp metachars are literal", "a+b.go", "a+b.go", true},
		{"dot is literal", "axgo", "a.go", false},
		{"case sensitive", "readme.md", "README.*", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, fnmatch(tt.value, tt.pattern))
		})
	}
}
