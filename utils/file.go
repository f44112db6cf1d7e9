package utils

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
)

var (
	ErrCopyToSelf = errors.New("copy source and destination are the same file")
)

// 在父目录下创建（或复用）名为name的子目录
func GetSubDir(parentPath, name string) (path string, err error) {
	path = filepath.Join(parentPath, name)
	err = os.MkdirAll(path, os.ModePerm)
	return
}

func GetFilenameWithoutExt(path string) (name string) {
	name = filepath.Base(path)
	name = strings.TrimSuffix(name, filepath.Ext(path))
	return
}

func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// 复制文件，目标已存在时直接跳过（返回copied=false）
func CopyFileOnce(src, dst string) (copied bool, err error) {
	if FileExists(dst) {
		return
	}
	if filepath.Clean(src) == filepath.Clean(dst) {
		err = ErrCopyToSelf
		return
	}
	in, err := os.Open(src)
	if err != nil {
		return
	}
	defer in.Close()
	tmp := dst + ".part"
	out, err := os.Create(tmp)
	if err != nil {
		return
	}
	if _, err = io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(tmp)
		return
	}
	if err = out.Close(); err != nil {
		os.Remove(tmp)
		return
	}
	if err = os.Rename(tmp, dst); err != nil {
		os.Remove(tmp)
		return
	}
	copied = true
	return
}

// 列出同目录下与path同名（不含扩展名）的附属文件，如shp的shx/dbf/prj
func GetSiblingFiles(path string, exts ...string) (files []string) {
	dir := filepath.Dir(path)
	stem := GetFilenameWithoutExt(path)
	for _, ext := range exts {
		cand := filepath.Join(dir, stem+ext)
		if FileExists(cand) {
			files = append(files, cand)
			continue
		}
		cand = filepath.Join(dir, stem+strings.ToUpper(ext))
		if FileExists(cand) {
			files = append(files, cand)
		}
	}
	return
}
