package main

import (
	"github.com/seqsense/pcdannotator/pcd"
)

type fileIO struct{}

func (fileIO) importCloud(path string) (*pcd.Cloud, error) {
	return pcd.Load(path)
}

func (fileIO) exportCloud(path string, c *pcd.Cloud) error {
	return pcd.Save(path, c)
}
