package sdlwin

const defaultMaxCacheSize = 32

type destroyer interface {
	Destroy() error
}

// textureCache keeps the most recently used textures of one renderer. The
// oldest entry is destroyed when a new one would exceed maxSize.
type textureCache[T destroyer] struct {
	textures map[string]T
	order    []string
	maxSize  int
}

func newTextureCache[T destroyer](maxSize int) *textureCache[T] {
	if maxSize <= 0 {
		maxSize = defaultMaxCacheSize
	}
	return &textureCache[T]{
		textures: make(map[string]T),
		order:    make([]string, 0, maxSize),
		maxSize:  maxSize,
	}
}

func (c *textureCache[T]) get(key string) (T, bool) {
	texture, ok := c.textures[key]
	if ok {
		c.moveToEnd(key)
	}
	return texture, ok
}

func (c *textureCache[T]) set(key string, texture T) {
	if old, ok := c.textures[key]; ok {
		_ = old.Destroy()
		c.textures[key] = texture
		c.moveToEnd(key)
		return
	}

	if len(c.order) >= c.maxSize {
		c.evictOldest()
	}

	c.textures[key] = texture
	c.order = append(c.order, key)
}

func (c *textureCache[T]) moveToEnd(key string) {
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			c.order = append(c.order, key)
			return
		}
	}
}

func (c *textureCache[T]) evictOldest() {
	if len(c.order) == 0 {
		return
	}

	oldest := c.order[0]
	c.order = c.order[1:]

	if texture, ok := c.textures[oldest]; ok {
		_ = texture.Destroy()
		delete(c.textures, oldest)
	}
}

func (c *textureCache[T]) len() int {
	return len(c.order)
}

func (c *textureCache[T]) destroy() {
	for _, texture := range c.textures {
		_ = texture.Destroy()
	}
	clear(c.textures)
	c.order = c.order[:0]
}
