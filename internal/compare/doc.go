// Package compare реализует сравнение выхода узла между версиями flow.
//
// Структура:
//   - orchestrator.go — раздача задач по вопросам и сбор ответов
//   - tweaks.go       — построение tweaks из переопределений узлов
//   - normalize.go    — приведение ответов движка к одному значению
//   - metrics.go      — Prometheus-метрики сравнений
//
// На каждый вопрос запускается одна задача; задача выполняет граф каждой
// запрошенной версии и складывает нормализованные ответы в свой слот
// результирующего массива. Массив преаллоцирован, слот i принадлежит
// вопросу i — порядок завершения задач на порядок ответов не влияет.
package compare
