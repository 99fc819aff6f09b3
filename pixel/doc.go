// Package pixel implements the monochrome color model of SSD1306 OLED panels.
//
// Mono is compatible with Go's native [color.Color] interface, so any image
// can be converted to lit and unlit pixels through [MonoModel].
package pixel
