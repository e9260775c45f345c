package cache

// MemoryDir is the cache directory value that selects an in-memory store.
const MemoryDir = ":memory:"

// Open returns the Store for the configured directory.
func Open(dir string) Store {
	if dir == MemoryDir {
		return NewMemoryStore()
	}
	return NewFileStore(dir)
}
