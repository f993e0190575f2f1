package canning

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBinaryCannerLinearContent(t *testing.T) {
	// 高度 = 4 × 字号，容器高 100：10→20→40 倍增，再在 20 与 40 之间二分到 25。
	container, content := newFake(300, 100, 10, scaled(1), scaled(4))

	bc := NewBinaryCanner(container, content)
	changed := bc.Can()

	assert.True(t, changed)
	assert.Equal(t, 25, bc.FontSize())
	assert.Equal(t, 25, container.FontSize())
	assert.Equal(t, Vertical, bc.Direction())
	assert.Equal(t, []int{20, 40, 20, 30, 25}, container.history)
	assert.Equal(t, 100.0, content.InnerHeight())
	assert.False(t, bc.Capped())
}

func TestBinaryCannerGrowthStopsAtFirstPowerOfTwoOverflow(t *testing.T) {
	container, content := newFake(300, 1000, 3, scaled(1), scaled(5))

	NewBinaryCanner(container, content).Can()

	// 3→6→…→192 (960 < 1000)→384 (1920 ≥ 1000)
	require.GreaterOrEqual(t, len(container.history), 7)
	assert.Equal(t, []int{6, 12, 24, 48, 96, 192, 384}, container.history[:7])
	assert.LessOrEqual(t, content.InnerHeight(), 1000.0)
}

func TestBinaryCannerShrinksOversizedContent(t *testing.T) {
	container, content := newFake(300, 100, 80, scaled(1), scaled(3))

	bc := NewBinaryCanner(container, content)
	bc.Can()

	assert.Equal(t, 33, bc.FontSize())
	assert.Equal(t, 99.0, content.InnerHeight())
}

func TestBinaryCannerTerminatesOnRoundingPlateau(t *testing.T) {
	container, content := newFake(300, 95, 10, scaled(1), stepped(10))

	bc := NewBinaryCanner(container, content)
	bc.Can()

	assert.False(t, bc.Capped())
	assert.LessOrEqual(t, content.InnerHeight(), 95.0)
	assert.Equal(t, 90.0, content.InnerHeight())
}

func TestBinaryCannerIdempotentNearFit(t *testing.T) {
	for _, factor := range []float64{3, 4, 7} {
		container, content := newFake(300, 100, 10, scaled(1), scaled(factor))
		NewBinaryCanner(container, content).Can()
		first := container.FontSize()

		NewBinaryCanner(container, content).Can()
		second := container.FontSize()

		diff := second - first
		if diff < 0 {
			diff = -diff
		}
		assert.LessOrEqual(t, diff, 1, "factor %v: %d then %d", factor, first, second)
	}
}

func TestBinaryCannerPlateauOnFirstSampleDoesNotGrow(t *testing.T) {
	// 测量从一开始就不随字号变化：倍增只发生一次（unset→值算变化），
	// 收窄阶段也只走一步就因为测量不再变化而停止。
	container, content := newFake(300, 100, 10, scaled(1), fixed(50))

	bc := NewBinaryCanner(container, content)
	bc.Can()

	assert.False(t, bc.Capped())
	assert.Equal(t, []int{20, 30}, container.history)
}

func TestBinaryCannerCapsNonConvergingMeasurement(t *testing.T) {
	counter := 0.0
	noisy := func(int) float64 {
		counter++
		return counter
	}
	container, content := newFake(300, 1e12, 1, scaled(1), noisy)

	bc := NewBinaryCanner(container, content, WithMaxSteps(5))
	bc.Can()

	assert.True(t, bc.Capped())
	assert.LessOrEqual(t, bc.Steps(), 10)
}

func TestBinaryCannerNowrapFitsWidth(t *testing.T) {
	container, content := newFake(200, 100, 5, scaled(10), scaled(2))

	bc := NewBinaryCanner(container, content, WithNowrap(true))
	bc.Can()

	assert.Equal(t, Horizontal, bc.Direction())
	assert.Equal(t, 20, bc.FontSize())
	assert.LessOrEqual(t, content.InnerWidth(), 200.0)
	assert.LessOrEqual(t, content.InnerHeight(), 100.0)
}
