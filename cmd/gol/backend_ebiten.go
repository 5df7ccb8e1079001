//go:build ebiten

package main

import _ "gpulife/internal/host/ebitenhost"
