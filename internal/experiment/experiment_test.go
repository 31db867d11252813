package experiment

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	. "github.com/onsi/gomega"
	"github.com/rs/zerolog"

	"github.com/san-kum/marblesim/internal/config"
	"github.com/san-kum/marblesim/internal/sensor"
)

func TestRunSynthetic(t *testing.T) {
	g := NewWithT(t)

	cfg := config.DefaultConfig()
	cfg.Duration = 2
	dev, err := BuildDevice(cfg, false)
	g.Expect(err).NotTo(HaveOccurred())

	exp, err := New(cfg, dev, zerolog.Nop())
	g.Expect(err).NotTo(HaveOccurred())

	res, err := exp.Run(context.Background())
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(res.Source).To(Equal("synthetic-gravity"))
	g.Expect(res.Counters.Accepted).To(Equal(100))
	g.Expect(res.Metrics).To(HaveKey("bounces"))
	g.Expect(res.Bounds.Contains(res.Final)).To(BeTrue())
}

func TestRunFallsBackToAccelerometer(t *testing.T) {
	g := NewWithT(t)

	cfg := config.GetPreset("emulator")
	cfg.Duration = 0.5
	dev, err := BuildDevice(cfg, false)
	g.Expect(err).NotTo(HaveOccurred())
	_, err = dev.Open(sensor.Gravity)
	g.Expect(err).To(MatchError(sensor.ErrUnavailable))

	exp, err := New(cfg, dev, zerolog.Nop())
	g.Expect(err).NotTo(HaveOccurred())
	res, err := exp.Run(context.Background())
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(res.Source).To(Equal("synthetic-accelerometer"))
}

func TestRunWithoutConfiguredKindsUsesDefaultOrder(t *testing.T) {
	g := NewWithT(t)

	cfg := config.DefaultConfig()
	cfg.Duration = 0.5
	cfg.Sensor.Available = nil

	dev := sensor.NewDevice()
	dev.Register(sensor.Gravity, func() sensor.Source {
		return sensor.NewSynthetic(cfg.Synthetic(sensor.Gravity))
	})

	exp, err := New(cfg, dev, zerolog.Nop())
	g.Expect(err).NotTo(HaveOccurred())
	res, err := exp.Run(context.Background())
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(res.Source).To(Equal("synthetic-gravity"))
	g.Expect(res.Counters.Accepted).To(Equal(25))
}

func TestRunWithoutSensorKeepsMarbleCentered(t *testing.T) {
	g := NewWithT(t)

	cfg := config.DefaultConfig()
	cfg.Width, cfg.Height = 200, 100

	exp, err := New(cfg, sensor.NewDevice(), zerolog.Nop())
	g.Expect(err).NotTo(HaveOccurred())
	res, err := exp.Run(context.Background())
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(res.Final.X).To(Equal(60.0))
	g.Expect(res.Final.Y).To(Equal(10.0))
	g.Expect(res.Counters.Delivered).To(BeZero())
}

func TestRunBackgroundedDropsStaleSamples(t *testing.T) {
	g := NewWithT(t)

	cfg := config.GetPreset("backgrounded")
	cfg.Duration = 5
	dev, err := BuildDevice(cfg, false)
	g.Expect(err).NotTo(HaveOccurred())

	exp, err := New(cfg, dev, zerolog.Nop())
	g.Expect(err).NotTo(HaveOccurred())
	res, err := exp.Run(context.Background())
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(res.Counters.Stale).To(BeNumerically(">=", 1))
}

func TestRunReplay(t *testing.T) {
	g := NewWithT(t)

	path := filepath.Join(t.TempDir(), "tilt.csv")
	f, err := os.Create(path)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(sensor.WriteCSV(f, sensor.Generate(sensor.DefaultSyntheticConfig(), 30))).To(Succeed())
	g.Expect(f.Close()).To(Succeed())

	cfg := config.DefaultConfig()
	cfg.Duration = 0
	cfg.Sensor.Replay = path
	dev, err := BuildDevice(cfg, false)
	g.Expect(err).NotTo(HaveOccurred())

	exp, err := New(cfg, dev, zerolog.Nop())
	g.Expect(err).NotTo(HaveOccurred())
	res, err := exp.Run(context.Background())
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(res.Counters.Delivered).To(Equal(30))
	g.Expect(res.Counters.Accepted).To(Equal(29))
}

func TestBuildDeviceRejectsEmptyReplay(t *testing.T) {
	g := NewWithT(t)

	path := filepath.Join(t.TempDir(), "empty.csv")
	f, err := os.Create(path)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(sensor.WriteCSV(f, nil)).To(Succeed())
	g.Expect(f.Close()).To(Succeed())

	cfg := config.DefaultConfig()
	cfg.Sensor.Replay = path
	_, err = BuildDevice(cfg, false)
	g.Expect(err).To(MatchError(ContainSubstring("no samples")))
}

func TestRunIsReproducible(t *testing.T) {
	g := NewWithT(t)

	run := func() []float64 {
		cfg := config.DefaultConfig()
		cfg.Duration = 1
		cfg.Seed = 11
		dev, err := BuildDevice(cfg, false)
		g.Expect(err).NotTo(HaveOccurred())
		exp, err := New(cfg, dev, zerolog.Nop())
		g.Expect(err).NotTo(HaveOccurred())
		res, err := exp.Run(context.Background())
		g.Expect(err).NotTo(HaveOccurred())
		return res.Final.Vector()
	}
	g.Expect(run()).To(Equal(run()))
}
