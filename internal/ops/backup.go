// Package ops holds offline maintenance helpers for the chore data dir.
package ops

import (
	"archive/tar"
	"bufio"
	"bytes"
	"compress/gzip"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// manifestName is the archive entry listing one sha256 digest per store
// document. Backup writes it last; Restore refuses archives without it.
const manifestName = "MANIFEST.sha256"

// isStoreDocument reports whether a file belongs to the calendar's
// store: the JSON documents and the sqlite database files. Anything
// else under the data dir is not backed up.
func isStoreDocument(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json", ".db", ".db-wal", ".db-shm":
		return true
	}
	return false
}

// Backup archives the store documents under dataDir into a tar.gz at
// archivePath. Each document is hashed while it streams into the
// archive and the digests land in a trailing manifest entry, so a
// restore can prove the documents survived intact.
func Backup(dataDir, archivePath string) error {
	if strings.TrimSpace(dataDir) == "" || strings.TrimSpace(archivePath) == "" {
		return fmt.Errorf("data dir and archive path are required")
	}
	dataDir = filepath.Clean(dataDir)
	archivePath = filepath.Clean(archivePath)

	info, err := os.Stat(dataDir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("not a data directory: %s", dataDir)
	}
	if err := os.MkdirAll(filepath.Dir(archivePath), 0o755); err != nil {
		return err
	}

	f, err := os.Create(archivePath)
	if err != nil {
		return err
	}

	gz := gzip.NewWriter(f)
	tw := tar.NewWriter(gz)

	if err := writeDocuments(tw, dataDir); err != nil {
		_ = f.Close()
		return err
	}
	if err := tw.Close(); err != nil {
		_ = f.Close()
		return err
	}
	if err := gz.Close(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func writeDocuments(tw *tar.Writer, dataDir string) error {
	var manifest bytes.Buffer

	err := filepath.WalkDir(dataDir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		// Symlinks and anything that is not a store document are skipped.
		if !d.Type().IsRegular() || !isStoreDocument(d.Name()) {
			return nil
		}

		rel, err := filepath.Rel(dataDir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		info, err := d.Info()
		if err != nil {
			return err
		}
		if err := tw.WriteHeader(&tar.Header{
			Name:     rel,
			Typeflag: tar.TypeReg,
			Mode:     int64(info.Mode().Perm()),
			Size:     info.Size(),
			ModTime:  info.ModTime(),
		}); err != nil {
			return err
		}

		digest, err := copyAndHash(tw, path)
		if err != nil {
			return err
		}
		fmt.Fprintf(&manifest, "%s  %s\n", digest, rel)
		return nil
	})
	if err != nil {
		return err
	}

	if err := tw.WriteHeader(&tar.Header{
		Name:     manifestName,
		Typeflag: tar.TypeReg,
		Mode:     0o644,
		Size:     int64(manifest.Len()),
	}); err != nil {
		return err
	}
	_, err = tw.Write(manifest.Bytes())
	return err
}

func copyAndHash(w io.Writer, path string) (string, error) {
	src, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer src.Close()

	h := sha256.New()
	if _, err := io.Copy(io.MultiWriter(w, h), src); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Restore unpacks an archive produced by Backup into targetDir and
// checks every document against the manifest. Entry paths are
// sanitized; absolute paths or traversal abort the whole restore.
func Restore(archivePath, targetDir string) error {
	if strings.TrimSpace(archivePath) == "" || strings.TrimSpace(targetDir) == "" {
		return fmt.Errorf("archive path and target dir are required")
	}
	targetDir = filepath.Clean(targetDir)
	if err := os.MkdirAll(targetDir, 0o755); err != nil {
		return err
	}

	f, err := os.Open(filepath.Clean(archivePath))
	if err != nil {
		return err
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return err
	}
	defer gz.Close()

	var manifest map[string]string
	restored := map[string]string{}

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}

		if hdr.Name == manifestName {
			if manifest, err = parseManifest(tr); err != nil {
				return err
			}
			continue
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}

		rel, err := entryPath(hdr.Name)
		if err != nil {
			return err
		}
		outPath := filepath.Join(targetDir, rel)
		if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
			return err
		}

		mode := os.FileMode(hdr.Mode).Perm()
		if mode == 0 {
			mode = 0o644
		}
		digest, err := writeAndHash(outPath, tr, mode)
		if err != nil {
			return err
		}
		restored[filepath.ToSlash(rel)] = digest
	}

	return checkManifest(manifest, restored)
}

func checkManifest(manifest, restored map[string]string) error {
	if manifest == nil {
		return fmt.Errorf("archive has no %s entry; not a backup produced by this tool", manifestName)
	}
	for rel, want := range manifest {
		got, ok := restored[rel]
		if !ok {
			return fmt.Errorf("archive is missing %s listed in its manifest", rel)
		}
		if got != want {
			return fmt.Errorf("digest mismatch for %s after restore", rel)
		}
	}
	for rel := range restored {
		if _, ok := manifest[rel]; !ok {
			return fmt.Errorf("archive contains %s which its manifest does not list", rel)
		}
	}
	return nil
}

func writeAndHash(path string, r io.Reader, mode os.FileMode) (string, error) {
	dst, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, mode)
	if err != nil {
		return "", err
	}

	h := sha256.New()
	if _, err := io.Copy(io.MultiWriter(dst, h), r); err != nil {
		_ = dst.Close()
		return "", err
	}
	if err := dst.Close(); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// entryPath rejects entry names that could write outside the target.
func entryPath(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("empty archive entry name")
	}
	if strings.HasPrefix(name, "/") || filepath.IsAbs(name) {
		return "", fmt.Errorf("absolute archive entry %q", name)
	}
	clean := filepath.Clean(filepath.FromSlash(name))
	if clean == "." || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("archive entry %q escapes the target dir", name)
	}
	return clean, nil
}

func parseManifest(r io.Reader) (map[string]string, error) {
	m := map[string]string{}
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		digest, rel, ok := strings.Cut(line, "  ")
		if !ok {
			return nil, fmt.Errorf("malformed manifest line %q", line)
		}
		m[rel] = digest
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return m, nil
}
