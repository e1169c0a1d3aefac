// Package imagery декодирует загруженные изображения в непрозрачный RGBA-буфер,
// рисует на нём разметку измерений и кодирует результат в JPEG.
//
// Формат входа определяется по содержимому: JPEG, PNG, GIF, BMP, TIFF и WebP.
// Одноканальные изображения разворачиваются в три одинаковых канала,
// альфа-канал отбрасывается без смешивания с фоном.
package imagery
