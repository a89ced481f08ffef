package gpu

import (
	"errors"
	"image"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/pion/videoframe/pkg/transform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type namedShader string

func (s namedShader) Name() string { return string(s) }

type countingDevice struct {
	id    uuid.UUID
	mu    sync.Mutex
	loads int
}

func (d *countingDevice) ID() uuid.UUID { return d.id }
func (d *countingDevice) CreateTexture(TextureFormat, image.Point) (Texture, error) {
	return nil, errors.New("unsupported")
}
func (d *countingDevice) ReleaseTexture(Texture)    {}
func (d *countingDevice) Submit(*UpdateBatch) error { return nil }
func (d *countingDevice) IsRecordingFrame() bool    { return false }
func (d *countingDevice) Render(RenderPass) error   { return nil }
func (d *countingDevice) ReadTexture(Texture) ([]byte, int, error) {
	return nil, 0, errors.New("unsupported")
}
func (d *countingDevice) LoadShader(name string) (Shader, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.loads++
	if name == "broken" {
		return nil, ErrShaderNotFound
	}
	return namedShader(name), nil
}

func TestShaderCacheLoadsOncePerDevice(t *testing.T) {
	cache := NewShaderCache()
	a := &countingDevice{id: uuid.New()}
	b := &countingDevice{id: uuid.New()}

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s, err := cache.Get(a, "nv12")
			assert.NoError(t, err)
			assert.Equal(t, "nv12", s.Name())
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, a.loads)

	_, err := cache.Get(b, "nv12")
	require.NoError(t, err)
	assert.Equal(t, 1, b.loads)
	assert.Equal(t, 2, cache.Len())

	_, err = cache.Get(a, "broken")
	assert.ErrorIs(t, err, ErrShaderNotFound)
	_, _ = cache.Get(a, "broken")
	assert.Equal(t, 3, a.loads)

	cache.Purge(a)
	assert.Equal(t, 1, cache.Len())
}

func TestContextAvailable(t *testing.T) {
	var nilCtx *Context
	assert.False(t, nilCtx.Available())
	assert.False(t, (&Context{}).Available())
	assert.True(t, NewContext(&countingDevice{id: uuid.New()}).Available())
}

func TestQuadFor(t *testing.T) {
	q := QuadFor(transform.Identity)
	u, v := q.At(0, 0)
	assert.Equal(t, [2]float32{0, 0}, [2]float32{u, v})
	u, v = q.At(1, 1)
	assert.Equal(t, [2]float32{1, 1}, [2]float32{u, v})

	q = QuadFor(transform.Transformation{Rotation: transform.Rotation180, MirroredHorizontallyAfterRotation: true})
	// A half turn followed by a mirror is a vertical flip.
	u, v = q.At(0, 0)
	assert.Equal(t, [2]float32{0, 1}, [2]float32{u, v})
}

func TestTextureFormatBytes(t *testing.T) {
	assert.Equal(t, 1, TextureFormatR8.BytesPerTexel())
	assert.Equal(t, 2, TextureFormatRG8.BytesPerTexel())
	assert.Equal(t, 2, TextureFormatR16.BytesPerTexel())
	assert.Equal(t, 4, TextureFormatRG16.BytesPerTexel())
	assert.Equal(t, 4, TextureFormatRGBA8.BytesPerTexel())
	assert.Equal(t, 0, TextureFormatUnknown.BytesPerTexel())
}
