package gpu

import (
	"sync"

	"github.com/google/uuid"
)

type shaderKey struct {
	device uuid.UUID
	name   string
}

// ShaderCache shares loaded shaders between conversions. It is safe for
// concurrent use and is keyed by device, so one cache can serve many devices.
type ShaderCache struct {
	mu      sync.Mutex
	shaders map[shaderKey]Shader
}

// NewShaderCache creates an empty cache.
func NewShaderCache() *ShaderCache {
	return &ShaderCache{shaders: make(map[shaderKey]Shader)}
}

// Get returns the named shader for d, loading it on first use. Failed loads
// are not cached.
func (c *ShaderCache) Get(d Device, name string) (Shader, error) {
	key := shaderKey{device: d.ID(), name: name}

	c.mu.Lock()
	defer c.mu.Unlock()

	if s, ok := c.shaders[key]; ok {
		return s, nil
	}
	s, err := d.LoadShader(name)
	if err != nil {
		return nil, err
	}
	c.shaders[key] = s
	return s, nil
}

// Purge drops every shader loaded for d.
func (c *ShaderCache) Purge(d Device) {
	id := d.ID()

	c.mu.Lock()
	defer c.mu.Unlock()

	for k := range c.shaders {
		if k.device == id {
			delete(c.shaders, k)
		}
	}
}

// Len returns the number of cached shaders.
func (c *ShaderCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.shaders)
}

// Context is the GPU state handed to the conversion pipeline by the caller.
type Context struct {
	Device  Device
	Shaders *ShaderCache
	// TargetLuminance is the peak brightness of the display in nits, used as
	// the tone mapping ceiling for HDR frames. Zero means SDR (100 nits).
	TargetLuminance float64
}

// NewContext wraps d with a fresh shader cache.
func NewContext(d Device) *Context {
	return &Context{Device: d, Shaders: NewShaderCache()}
}

// Available reports whether c can accept offscreen rendering work now.
func (c *Context) Available() bool {
	return c != nil && c.Device != nil && !c.Device.IsRecordingFrame()
}

// Shader loads name through the context's cache, creating the cache lazily.
func (c *Context) Shader(name string) (Shader, error) {
	if c.Shaders == nil {
		c.Shaders = NewShaderCache()
	}
	return c.Shaders.Get(c.Device, name)
}
