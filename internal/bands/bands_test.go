package bands

import "testing"

func TestAll(t *testing.T) {
	all := All()
	if len(all) != 11 {
		t.Errorf("Expected 11 bands, got %d", len(all))
	}
	if all[0] != "1" || all[10] != "11" {
		t.Errorf("Expected bands 1..11, got %v", all)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		labels  []string
		wantErr bool
	}{
		{
			name:   "all bands",
			labels: All(),
		},
		{
			name:   "rgb subset",
			labels: []string{"4", "3", "2"},
		},
		{
			name:   "empty request",
			labels: nil,
		},
		{
			name:    "unknown band",
			labels:  []string{"2", "12"},
			wantErr: true,
		},
		{
			name:    "zero is not a band",
			labels:  []string{"0"},
			wantErr: true,
		},
		{
			name:    "duplicate band",
			labels:  []string{"2", "3", "2"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.labels)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate(%v) error = %v, wantErr %v", tt.labels, err, tt.wantErr)
			}
		})
	}
}
