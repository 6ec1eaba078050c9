package asciimath

import (
	"bytes"
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/pkg/errors"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
)

// Store 文档存储
type Store interface {
	// List 返回全部 Markdown 文档的引用
	List(ctx context.Context) ([]string, error)
	Read(ctx context.Context, ref string) (string, error)
	Write(ctx context.Context, ref, text string) error
}

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// DirStore 以目录为 vault：递归查找 .md 文件，跳过以 . 开头的目录
//
// 读取时去掉 BOM（UTF-16 会转为 UTF-8），写回时按原编码还原。
type DirStore struct {
	Root string
	// Exts 文档扩展名，默认 .md
	Exts []string

	mu        sync.Mutex
	encodings map[string]encoding.Encoding
}

// NewDirStore 创建目录存储
func NewDirStore(root string) *DirStore {
	return &DirStore{Root: root, Exts: []string{".md"}, encodings: make(map[string]encoding.Encoding)}
}

func (s *DirStore) isDoc(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range s.Exts {
		if ext == e {
			return true
		}
	}
	return false
}

func (s *DirStore) path(ref string) string {
	return filepath.Join(s.Root, filepath.FromSlash(ref))
}

// List 遍历目录
func (s *DirStore) List(ctx context.Context) ([]string, error) {
	var refs []string
	err := filepath.WalkDir(s.Root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			if path != s.Root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || !s.isDoc(d.Name()) {
			return nil
		}
		rel, err := filepath.Rel(s.Root, path)
		if err != nil {
			return err
		}
		refs = append(refs, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, &StorageError{Ref: s.Root, Op: "list", Err: err}
	}
	sort.Strings(refs)
	return refs, nil
}

// Read 读取并解码
func (s *DirStore) Read(_ context.Context, ref string) (string, error) {
	data, err := os.ReadFile(s.path(ref))
	if err != nil {
		return "", &StorageError{Ref: ref, Op: "read", Err: err}
	}

	var enc encoding.Encoding
	switch {
	case bytes.HasPrefix(data, bomUTF8):
		enc = unicode.UTF8BOM
	case bytes.HasPrefix(data, bomUTF16LE):
		enc = unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM)
	case bytes.HasPrefix(data, bomUTF16BE):
		enc = unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM)
	}

	if enc != nil {
		data, err = enc.NewDecoder().Bytes(data)
		if err != nil {
			return "", &StorageError{Ref: ref, Op: "decode", Err: err}
		}
	}
	if !utf8.Valid(data) {
		return "", &StorageError{Ref: ref, Op: "decode", Err: errors.New("not valid UTF-8")}
	}

	s.mu.Lock()
	if s.encodings == nil {
		s.encodings = make(map[string]encoding.Encoding)
	}
	if enc != nil {
		s.encodings[ref] = enc
	} else {
		delete(s.encodings, ref)
	}
	s.mu.Unlock()
	return string(data), nil
}

// Write 按读取时的编码写回，保留文件权限
func (s *DirStore) Write(_ context.Context, ref, text string) error {
	path := s.path(ref)
	data := []byte(text)

	s.mu.Lock()
	enc := s.encodings[ref]
	s.mu.Unlock()
	if enc != nil {
		var err error
		data, err = enc.NewEncoder().Bytes(data)
		if err != nil {
			return &StorageError{Ref: ref, Op: "encode", Err: err}
		}
	}

	mode := fs.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return &StorageError{Ref: ref, Op: "write", Err: err}
	}
	if err := os.WriteFile(path, data, mode); err != nil {
		return &StorageError{Ref: ref, Op: "write", Err: err}
	}
	return nil
}

// MemStore 内存存储，主要用于测试与宿主内嵌
type MemStore struct {
	mu   sync.RWMutex
	docs map[string]string
	// Writes 每个文档被写入的次数
	writes map[string]int
}

// NewMemStore 以 docs 初始化
func NewMemStore(docs map[string]string) *MemStore {
	m := &MemStore{docs: make(map[string]string, len(docs)), writes: make(map[string]int)}
	for k, v := range docs {
		m.docs[k] = v
	}
	return m
}

func (m *MemStore) List(context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	refs := make([]string, 0, len(m.docs))
	for k := range m.docs {
		refs = append(refs, k)
	}
	sort.Strings(refs)
	return refs, nil
}

func (m *MemStore) Read(_ context.Context, ref string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	text, ok := m.docs[ref]
	if !ok {
		return "", &StorageError{Ref: ref, Op: "read", Err: fs.ErrNotExist}
	}
	return text, nil
}

func (m *MemStore) Write(_ context.Context, ref, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[ref] = text
	m.writes[ref]++
	return nil
}

// Get 返回文档内容
func (m *MemStore) Get(ref string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.docs[ref]
}

// Writes 返回 ref 被写入的次数
func (m *MemStore) Writes(ref string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.writes[ref]
}
