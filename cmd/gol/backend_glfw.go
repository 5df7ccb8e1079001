//go:build glfw

package main

import _ "gpulife/internal/host/glfwhost"
