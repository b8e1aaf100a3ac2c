package animate_test

import (
	"errors"
	"fmt"
	"image/gif"
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/flowviz/internal/animate"
	"github.com/san-kum/flowviz/internal/field"
	"github.com/san-kum/flowviz/internal/render"
)

// writeField writes a 4x4 "X Y Value" snapshot whose values are offset.
func writeField(dir string, step int, offset float64) field.Snapshot {
	var b strings.Builder
	b.WriteString("X Y Value\n")
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			fmt.Fprintf(&b, "%d %d %g\n", i, j, offset+float64(i*4+j))
		}
	}
	path := filepath.Join(dir, field.FileName(field.KindU, step))
	Expect(os.WriteFile(path, []byte(b.String()), 0644)).To(Succeed())
	return field.Snapshot{Path: path, Step: step}
}

func load(path string) (*field.Grid, error) {
	return field.Load(path, field.Reader{Layout: field.LayoutScalar}, field.InferredShape{})
}

var _ = Describe("Driver", func() {
	var (
		dir    string
		out    string
		driver *animate.Driver
	)

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
		out = filepath.Join(dir, render.AnimationName("u"))
		driver = &animate.Driver{
			Load:        load,
			Spec:        render.Spec{Field: "u", Width: 320, Height: 240},
			OutputEvery: 100,
			FPS:         5,
		}
	})

	It("fails with ErrNoFrames and writes nothing for an empty sequence", func() {
		res, err := driver.Run(nil, out)
		Expect(err).To(MatchError(animate.ErrNoFrames))
		Expect(res).To(BeNil())
		Expect(out).NotTo(BeAnExistingFile())
	})

	It("writes one frame per snapshot in step order", func() {
		snaps := []field.Snapshot{
			writeField(dir, 200, 2),
			writeField(dir, 0, 0),
			writeField(dir, 100, 1),
		}

		res, err := driver.Run(snaps, out)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Frames).To(Equal(3))
		Expect(res.Labels).To(Equal([]int{0, 100, 200}))
		Expect(res.Output).To(Equal(out))

		f, err := os.Open(out)
		Expect(err).NotTo(HaveOccurred())
		defer f.Close()
		anim, err := gif.DecodeAll(f)
		Expect(err).NotTo(HaveOccurred())
		Expect(anim.Image).To(HaveLen(3))
		Expect(anim.Delay).To(HaveEach(20))
		Expect(anim.Config.Width).To(Equal(320))
	})

	It("labels frames by index times the output interval", func() {
		driver.OutputEvery = 50
		snaps := []field.Snapshot{writeField(dir, 7, 0), writeField(dir, 9, 0)}

		res, err := driver.Run(snaps, out)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Labels).To(Equal([]int{0, 50}))
	})

	It("leaves no partial output when a later frame fails", func() {
		snaps := []field.Snapshot{
			writeField(dir, 0, 0),
			{Path: filepath.Join(dir, "u_field_step100.dat"), Step: 100},
		}

		_, err := driver.Run(snaps, out)
		Expect(errors.Is(err, field.ErrNotFound)).To(BeTrue())
		Expect(out).NotTo(BeAnExistingFile())
	})

	It("rejects a frame with a different shape", func() {
		bad := filepath.Join(dir, "u_field_step100.dat")
		Expect(os.WriteFile(bad, []byte("0 0 1\n0 1 1\n1 0 1\n1 1 1\n"), 0644)).To(Succeed())
		snaps := []field.Snapshot{writeField(dir, 0, 0), {Path: bad, Step: 100}}

		_, err := driver.Run(snaps, out)
		Expect(err).To(HaveOccurred())
		Expect(out).NotTo(BeAnExistingFile())
	})

	DescribeTable("rejects invalid settings",
		func(mutate func(*animate.Driver)) {
			mutate(driver)
			_, err := driver.Run([]field.Snapshot{writeField(dir, 0, 0)}, out)
			Expect(err).To(HaveOccurred())
			Expect(out).NotTo(BeAnExistingFile())
		},
		Entry("zero fps", func(d *animate.Driver) { d.FPS = 0 }),
		Entry("zero interval", func(d *animate.Driver) { d.OutputEvery = 0 }),
		Entry("missing loader", func(d *animate.Driver) { d.Load = nil }),
		Entry("unknown colormap", func(d *animate.Driver) { d.Spec.Colormap = "nope" }),
	)
})
