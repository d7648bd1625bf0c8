package piece

import "testing"

func uintPtr(v uint) *uint { return &v }

func TestCalculate_automatic(t *testing.T) {
	tests := []struct {
		name       string
		totalSize  int64
		maxExp     *uint
		target     *uint
		trackerURL string
		mode       Mode
		want       uint
	}{
		{name: "small file uses minimum v1 exponent", totalSize: 1 << 10, want: 16},
		{name: "63MB uses 128KiB", totalSize: 63 << 20, want: 17},
		{name: "1.1GB uses 1MiB", totalSize: 1100 << 20, want: 20},
		{name: "max exp respected", totalSize: 1 << 40, maxExp: uintPtr(22), want: 22},
		{name: "max exp below minimum clamps to minimum", totalSize: 1 << 40, maxExp: uintPtr(5), want: 15},
		{name: "emp tracker caps at 2^23", totalSize: 100 << 30, trackerURL: "https://empornium.sx/announce?passkey=1", want: 23},
		{
			name:       "emp tracker plus stricter user cap uses user cap",
			totalSize:  100 << 30,
			trackerURL: "https://empornium.sx/announce?passkey=1",
			maxExp:     uintPtr(22),
			want:       22,
		},
		{
			name:       "emp tracker ignores looser user cap",
			totalSize:  100 << 30,
			trackerURL: "https://empornium.sx/announce?passkey=1",
			maxExp:     uintPtr(24),
			want:       23,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := Calculate(tt.totalSize, Options{
				MaxExp:       tt.maxExp,
				PiecesTarget: tt.target,
				TrackerURL:   tt.trackerURL,
				Mode:         tt.mode,
			})
			if err != nil {
				t.Fatalf("Calculate: %v", err)
			}
			if plan.Exp != tt.want {
				t.Errorf("Exp = %d, want %d", plan.Exp, tt.want)
			}
		})
	}
}

func TestCalculate_explicitExponent(t *testing.T) {
	plan, err := Calculate(1<<30, Options{Exp: uintPtr(18)})
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	if plan.Length != 1<<18 {
		t.Errorf("Length = %d, want %d", plan.Length, 1<<18)
	}
	if plan.Count != int((1<<30+plan.Length-1)/plan.Length) {
		t.Errorf("Count = %d, unexpected", plan.Count)
	}
}

func TestCalculate_explicitExponentOutOfBounds(t *testing.T) {
	if _, err := Calculate(100, Options{Exp: uintPtr(5)}); err == nil {
		t.Error("expected error for out-of-bounds exponent")
	}
	if _, err := Calculate(100, Options{Exp: uintPtr(30)}); err == nil {
		t.Error("expected error for out-of-bounds exponent")
	}
}

func TestCalculate_v2FloorIsLowerThanV1(t *testing.T) {
	plan, err := Calculate(100, Options{Exp: uintPtr(14), Mode: ModeV2})
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	if plan.Exp != 14 {
		t.Errorf("Exp = %d, want 14", plan.Exp)
	}

	if _, err := Calculate(100, Options{Exp: uintPtr(14), Mode: ModeV1}); err == nil {
		t.Error("expected v1 mode to reject 2^14")
	}
}

func TestCalculate_pieceCount(t *testing.T) {
	plan, err := Calculate(1<<18+1, Options{Exp: uintPtr(18)})
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	if plan.Count != 2 {
		t.Errorf("Count = %d, want 2", plan.Count)
	}
}
