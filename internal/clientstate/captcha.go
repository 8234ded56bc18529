package clientstate

import "math/rand"

// CaptchaSize is the number of cells in the decorative challenge grid.
const CaptchaSize = 9

// CaptchaCell is one tile of the challenge. The user must pick a logo cell.
type CaptchaCell struct {
	ID     int
	IsLogo bool
}

// NewCaptcha generates a 3x3 challenge with at least one logo cell.
func NewCaptcha(r *rand.Rand) []CaptchaCell {
	grid := make([]CaptchaCell, CaptchaSize)
	hasLogo := false
	for i := range grid {
		grid[i] = CaptchaCell{ID: i, IsLogo: r.Float64() > 0.7}
		hasLogo = hasLogo || grid[i].IsLogo
	}
	if !hasLogo {
		grid[r.Intn(CaptchaSize)].IsLogo = true
	}
	return grid
}

// SolveCaptcha reports whether the picked cell is a logo. A wrong pick means
// the caller regenerates the challenge.
func SolveCaptcha(grid []CaptchaCell, id int) bool {
	for _, cell := range grid {
		if cell.ID == id {
			return cell.IsLogo
		}
	}
	return false
}
